package merge

import (
	"fmt"

	"github.com/dusk-indust/nbmerge/internal/notebook"
	"github.com/google/uuid"
)

// Classify walks an ordered mapping list and emits one typed conflict per
// disagreement. Classification is total: every divergence maps to exactly
// one conflict kind (plus independent output/execution-count conflicts for
// code cells), and agreement maps to none. A single list-level
// cell-reordered conflict is appended when DetectReordering fires.
func Classify(mappings []CellMapping) []SemanticConflict {
	var conflicts []SemanticConflict

	for _, m := range mappings {
		conflicts = append(conflicts, classifyMapping(m)...)
	}

	if DetectReordering(mappings) {
		conflicts = append(conflicts, SemanticConflict{
			ID:          uuid.NewString(),
			Kind:        ConflictCellReordered,
			Mapping:     CellMapping{Base: NoIndex, Current: NoIndex, Incoming: NoIndex},
			Description: "cells were reordered differently in the two versions",
		})
	}

	return conflicts
}

// classifyMapping applies the per-cell rules in order; the first matching
// rule decides, except that output and execution-count divergence on code
// cells present in all three versions are checked independently.
func classifyMapping(m CellMapping) []SemanticConflict {
	hasB, hasC, hasI := m.HasBase(), m.HasCurrent(), m.HasIncoming()

	switch {
	case !hasB && hasC && hasI:
		// Both sides added a cell the ancestor never had.
		if notebook.SameSource(*m.CurrentCell, *m.IncomingCell) {
			if notebook.MetadataEqual(m.CurrentCell.Metadata, m.IncomingCell.Metadata) {
				return nil
			}
			return []SemanticConflict{newConflict(ConflictMetadata, m,
				fmt.Sprintf("%s: added on both sides with different metadata", describeCell(m)))}
		}
		return []SemanticConflict{newConflict(ConflictCellAdded, m,
			fmt.Sprintf("%s: added on both sides with different content", describeCell(m)))}

	case !hasB && (hasC != hasI):
		side := "current"
		if hasI {
			side = "incoming"
		}
		return []SemanticConflict{newConflict(ConflictCellAdded, m,
			fmt.Sprintf("%s: added in %s", describeCell(m), side))}

	case hasB && (hasC != hasI):
		side := "incoming"
		if hasI {
			side = "current"
		}
		return []SemanticConflict{newConflict(ConflictCellDeleted, m,
			fmt.Sprintf("%s: deleted in %s", describeCell(m), side))}

	case hasB && !hasC && !hasI:
		// Deleted on both sides: agreement, not a conflict.
		return nil
	}

	// Present in all three versions.
	var conflicts []SemanticConflict

	srcB := m.BaseCell.NormalizedSource()
	srcC := m.CurrentCell.NormalizedSource()
	srcI := m.IncomingCell.NormalizedSource()
	if srcC != srcB && srcI != srcB && srcC != srcI {
		conflicts = append(conflicts, newConflict(ConflictCellModified, m,
			fmt.Sprintf("%s: modified divergently on both sides", describeCell(m))))
	}

	if m.BaseCell.Kind == notebook.KindCode {
		if outputsDiverged(m) {
			conflicts = append(conflicts, newConflict(ConflictOutputs, m,
				fmt.Sprintf("%s: outputs regenerated divergently", describeCell(m))))
		}
		if execCountDiverged(m) {
			conflicts = append(conflicts, newConflict(ConflictExecutionCount, m,
				fmt.Sprintf("%s: execution count diverged", describeCell(m))))
		}
	}

	return conflicts
}

// outputsDiverged reports pairwise-divergent outputs across the three
// versions of a triple-matched cell.
func outputsDiverged(m CellMapping) bool {
	outB, outC, outI := m.BaseCell.Outputs, m.CurrentCell.Outputs, m.IncomingCell.Outputs
	return !notebook.OutputsEqual(outC, outB) && !notebook.OutputsEqual(outI, outB) &&
		!notebook.OutputsEqual(outC, outI)
}

// execCountDiverged reports pairwise-divergent execution counts across the
// three versions of a triple-matched cell.
func execCountDiverged(m CellMapping) bool {
	ecB, ecC, ecI := m.BaseCell.ExecutionCount, m.CurrentCell.ExecutionCount, m.IncomingCell.ExecutionCount
	return !notebook.ExecutionCountEqual(ecC, ecB) && !notebook.ExecutionCountEqual(ecI, ecB) &&
		!notebook.ExecutionCountEqual(ecC, ecI)
}

func newConflict(kind ConflictKind, m CellMapping, desc string) SemanticConflict {
	return SemanticConflict{
		ID:          uuid.NewString(),
		Kind:        kind,
		Mapping:     m,
		Description: desc,
	}
}

// describeCell labels a mapping by its most stable defined position.
func describeCell(m CellMapping) string {
	switch {
	case m.HasBase():
		return fmt.Sprintf("cell %d", m.Base)
	case m.HasCurrent():
		return fmt.Sprintf("cell %d (current)", m.Current)
	default:
		return fmt.Sprintf("cell %d (incoming)", m.Incoming)
	}
}
