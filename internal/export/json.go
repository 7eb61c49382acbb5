// Package export builds machine-readable reports of a merge run for
// external tooling (review UIs, CI annotations).
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/dusk-indust/nbmerge/internal/merge"
)

// MergeReport is the top-level JSON report structure.
type MergeReport struct {
	Path           string           `json:"path,omitempty"`
	GeneratedAt    string           `json:"generatedAt"`
	Stats          MergeStats       `json:"stats"`
	KernelResolved bool             `json:"kernelResolved"`
	Resolved       []string         `json:"resolved,omitempty"`
	Conflicts      []ConflictExport `json:"conflicts,omitempty"`
}

// MergeStats summarizes one merge run.
type MergeStats struct {
	Mappings     int `json:"mappings"`
	MergedCells  int `json:"mergedCells"`
	AutoResolved int `json:"autoResolved"`
	Remaining    int `json:"remaining"`
}

// ConflictExport describes one unresolved conflict. Absent positions are
// omitted rather than encoded as -1.
type ConflictExport struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Base        *int    `json:"baseIndex,omitempty"`
	Current     *int    `json:"currentIndex,omitempty"`
	Incoming    *int    `json:"incomingIndex,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// BuildReport assembles a MergeReport from the outcome of a merge run.
func BuildReport(path string, mappings []merge.CellMapping, result merge.Result) *MergeReport {
	report := &MergeReport{
		Path:        path,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Stats: MergeStats{
			Mappings:     len(mappings),
			MergedCells:  len(result.Merged.Cells),
			AutoResolved: len(result.Resolved),
			Remaining:    len(result.Remaining),
		},
		KernelResolved: result.KernelResolved,
		Resolved:       result.Resolved,
	}

	for _, c := range result.Remaining {
		report.Conflicts = append(report.Conflicts, ConflictExport{
			ID:          c.ID,
			Kind:        string(c.Kind),
			Description: c.Description,
			Base:        indexPtr(c.Mapping.Base),
			Current:     indexPtr(c.Mapping.Current),
			Incoming:    indexPtr(c.Mapping.Incoming),
			Confidence:  c.Mapping.Confidence,
		})
	}

	return report
}

// WriteReport writes a report as indented JSON.
func WriteReport(path string, report *MergeReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func indexPtr(idx int) *int {
	if idx == merge.NoIndex {
		return nil
	}
	return &idx
}
