package main

import (
	"fmt"
	"path/filepath"

	"github.com/dusk-indust/nbmerge/internal/gitio"
	"github.com/dusk-indust/nbmerge/internal/merge"
)

// runGit merges the staged versions of conflicted notebooks in a git
// repository. With no arguments it merges every conflicted .ipynb file;
// with arguments it merges only those paths.
func runGit(repoDir string, paths []string, policy merge.ResolutionPolicy, flags cliFlags) error {
	staged := gitio.NewStaged(repoDir)

	if len(paths) == 0 {
		all, err := staged.Conflicted()
		if err != nil {
			return err
		}
		for _, p := range all {
			if filepath.Ext(p) == ".ipynb" {
				paths = append(paths, p)
			}
		}
		if len(paths) == 0 {
			fmt.Println("no conflicted notebooks")
			return nil
		}
	}

	var failed int
	for _, path := range paths {
		base, current, incoming, err := staged.Versions(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		in := merge.Input{Base: base, Current: current, Incoming: incoming}
		output := filepath.Join(repoDir, path)
		if err := mergeAndWrite(in, path, output, policy, flags); err != nil {
			fmt.Println(err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d notebooks still conflicted", failed, len(paths))
	}
	return nil
}
