package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/dusk-indust/nbmerge/internal/export"
	"github.com/dusk-indust/nbmerge/internal/ipynb"
	"github.com/dusk-indust/nbmerge/internal/merge"
	"github.com/dusk-indust/nbmerge/internal/symbols"
)

// runMergeFiles merges two or three notebook files given as positional
// arguments: "current incoming" or "base current incoming".
func runMergeFiles(paths []string, policy merge.ResolutionPolicy, flags cliFlags) error {
	in, label, err := loadMergeInput(paths)
	if err != nil {
		return err
	}

	output := flags.Output
	if output == "" {
		output = label
	}

	return mergeAndWrite(in, label, output, policy, flags)
}

// loadMergeInput parses the positional notebook paths. The second return is
// the current-version path, used for labeling and as the default output.
func loadMergeInput(paths []string) (merge.Input, string, error) {
	var in merge.Input
	var basePath, currentPath, incomingPath string

	switch len(paths) {
	case 2:
		currentPath, incomingPath = paths[0], paths[1]
	case 3:
		basePath, currentPath, incomingPath = paths[0], paths[1], paths[2]
	default:
		return in, "", fmt.Errorf("usage: nbmerge [flags] [base] current incoming")
	}

	var err error
	if basePath != "" {
		if in.Base, err = ipynb.ParseFile(basePath); err != nil {
			return in, "", fmt.Errorf("base: %w", err)
		}
	}
	if in.Current, err = ipynb.ParseFile(currentPath); err != nil {
		return in, "", fmt.Errorf("current: %w", err)
	}
	if in.Incoming, err = ipynb.ParseFile(incomingPath); err != nil {
		return in, "", fmt.Errorf("incoming: %w", err)
	}
	return in, currentPath, nil
}

// mergeAndWrite runs the pipeline, writes the merged notebook and optional
// report, and prints the conflict summary.
func mergeAndWrite(in merge.Input, label, output string, policy merge.ResolutionPolicy, flags cliFlags) error {
	result, mappings, err := merge.Merge(in, policy)
	if err != nil {
		return fmt.Errorf("merge %s: %w", label, err)
	}

	if err := ipynb.WriteFile(output, result.Merged); err != nil {
		return err
	}

	if flags.Report != "" {
		report := export.BuildReport(label, mappings, result)
		if err := export.WriteReport(flags.Report, report); err != nil {
			return err
		}
	}

	printSummary(in, label, result, flags.Verbose)

	if len(result.Remaining) > 0 {
		return fmt.Errorf("%d conflicts need manual resolution", len(result.Remaining))
	}
	return nil
}

func printSummary(in merge.Input, label string, result merge.Result, verbose bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Printf("%s: %d cells merged\n", label, len(result.Merged.Cells))

	if len(result.Resolved) > 0 {
		green.Printf("  auto-resolved %d:\n", len(result.Resolved))
		for _, desc := range result.Resolved {
			green.Printf("    %s\n", desc)
		}
	}
	if result.KernelResolved {
		yellow.Println("  kernel version divergence resolved by precedence")
	}

	for _, c := range result.Remaining {
		red.Printf("  conflict [%s] %s\n", c.Kind, c.Description)
		if note := symbolNote(in, c); note != "" {
			red.Printf("    changed: %s\n", note)
		}
		if verbose {
			red.Printf("    id=%s confidence=%.2f\n", c.ID, c.Mapping.Confidence)
		}
	}
}

// symbolNote names the top-level definitions that differ between the two
// sides of a cell-modified conflict, when the kernel language has a
// registered grammar.
func symbolNote(in merge.Input, c merge.SemanticConflict) string {
	if c.Kind != merge.ConflictCellModified {
		return ""
	}
	cur, inc := c.Mapping.CurrentCell, c.Mapping.IncomingCell
	if cur == nil || inc == nil {
		return ""
	}

	ext, ok := symbols.ForLanguage(in.Current.Language())
	if !ok {
		return ""
	}
	names, err := ext.Changed(cur.Source, inc.Source)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.Join(names, ", ")
}
