package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/nbmerge/internal/ipynb"
	"github.com/dusk-indust/nbmerge/internal/merge"
	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// runBatch merges every notebook under three version directories:
// "base current incoming". A notebook missing from the base directory is
// merged without an ancestor. Merged documents land in the output directory
// (-output, default the current-version directory).
func runBatch(dirs []string, policy merge.ResolutionPolicy, flags cliFlags) error {
	if len(dirs) != 3 {
		return fmt.Errorf("usage: nbmerge -batch [flags] baseDir currentDir incomingDir")
	}
	baseDir, currentDir, incomingDir := dirs[0], dirs[1], dirs[2]

	outDir := flags.Output
	if outDir == "" {
		outDir = currentDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	names, err := filepath.Glob(filepath.Join(currentDir, "*.ipynb"))
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no notebooks in %s", currentDir)
	}

	// Per-file reports would clobber each other; batch runs skip them.
	fileFlags := flags
	fileFlags.Report = ""

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, currentPath := range names {
		name := filepath.Base(currentPath)
		g.Go(func() error {
			var in merge.Input
			var err error

			if in.Base, err = parseOptional(filepath.Join(baseDir, name)); err != nil {
				return fmt.Errorf("base %s: %w", name, err)
			}
			if in.Current, err = ipynb.ParseFile(currentPath); err != nil {
				return fmt.Errorf("current %s: %w", name, err)
			}
			if in.Incoming, err = ipynb.ParseFile(filepath.Join(incomingDir, name)); err != nil {
				return fmt.Errorf("incoming %s: %w", name, err)
			}

			return mergeAndWrite(in, name, filepath.Join(outDir, name), policy, fileFlags)
		})
	}

	return g.Wait()
}

// parseOptional parses a notebook, returning nil (no ancestor) when the
// file does not exist.
func parseOptional(path string) (*notebook.Notebook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return ipynb.ParseFile(path)
}
