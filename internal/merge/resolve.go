package merge

import (
	"fmt"
	"log"

	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// AutoResolve builds the provisional merged notebook from an ordered mapping
// list and removes every conflict the policy allows to be resolved without a
// human decision. Remaining conflicts keep their original detection order.
// AutoResolve never fails: a non-applicable policy simply leaves the
// conflict in place, and re-applying the same policy to an already-resolved
// set changes nothing further.
func AutoResolve(in Input, mappings []CellMapping, conflicts []SemanticConflict, policy ResolutionPolicy) Result {
	merged, cellAt := buildMerged(in, mappings)
	result := Result{Merged: merged}

	// Document clearing derives from the mappings, not the caller's
	// conflict list, so the same policy always rebuilds the same document
	// no matter how far the conflict set has already been reduced.
	clearTransient(mappings, cellAt, policy)

	for _, c := range conflicts {
		switch {
		case c.Kind == ConflictExecutionCount && policy.ResolveExecutionCounts:
			result.Resolved = append(result.Resolved,
				fmt.Sprintf("%s: cleared execution count", c.Description))

		case c.Kind == ConflictOutputs && policy.ResolveOutputs:
			result.Resolved = append(result.Resolved,
				fmt.Sprintf("%s: cleared outputs", c.Description))

		case policy.ResolveWhitespace && whitespaceOnly(c):
			// Both sources collapse to the same text; keep the side already
			// in the merged notebook instead of surfacing a decision.
			result.Resolved = append(result.Resolved,
				fmt.Sprintf("%s: whitespace-only difference", c.Description))

		default:
			result.Remaining = append(result.Remaining, c)
		}
	}

	if policy.ResolveKernelVersion {
		result.KernelResolved = resolveKernel(in, merged, policy.kernelSide())
		if result.KernelResolved {
			result.Resolved = append(result.Resolved,
				fmt.Sprintf("kernel metadata: took %s side", policy.kernelSide()))
		}
	}

	if n := len(result.Resolved); n > 0 {
		log.Printf("resolve: auto-resolved %d of %d conflicts", n, len(conflicts))
	}

	return result
}

// clearTransient clears execution counts and outputs on merged code cells
// whose three versions diverged pairwise, per policy. It applies the same
// divergence rules the classifier uses, so the cleared document matches the
// conflicts being resolved.
func clearTransient(mappings []CellMapping, cellAt func(CellMapping) *notebook.Cell, policy ResolutionPolicy) {
	if !policy.ResolveExecutionCounts && !policy.ResolveOutputs {
		return
	}

	for _, m := range mappings {
		if !m.HasBase() || !m.HasCurrent() || !m.HasIncoming() {
			continue
		}
		if m.BaseCell.Kind != notebook.KindCode {
			continue
		}
		cell := cellAt(m)
		if cell == nil {
			continue
		}
		if policy.ResolveExecutionCounts && execCountDiverged(m) {
			cell.ExecutionCount = nil
		}
		if policy.ResolveOutputs && outputsDiverged(m) {
			cell.Outputs = nil
		}
	}
}

// buildMerged constructs the provisional merged notebook by walking the
// ordered mappings. Per mapping: a side that changed the cell relative to
// base wins over an unchanged side; the current side wins otherwise; cells
// deleted from both sides are omitted. Every cell is cloned, so policies
// mutate only the merged output, never the inputs.
//
// The returned lookup resolves a conflict's mapping back to its merged cell.
func buildMerged(in Input, mappings []CellMapping) (*notebook.Notebook, func(CellMapping) *notebook.Cell) {
	merged := &notebook.Notebook{}
	if in.Current != nil {
		merged.Metadata = in.Current.Clone().Metadata
	}

	position := make(map[[3]int]int, len(mappings))
	for _, m := range mappings {
		pick := pickCell(m)
		if pick == nil {
			continue
		}
		position[mappingKey(m)] = len(merged.Cells)
		merged.Cells = append(merged.Cells, pick.Clone())
	}

	cellAt := func(m CellMapping) *notebook.Cell {
		if idx, ok := position[mappingKey(m)]; ok {
			return &merged.Cells[idx]
		}
		return nil
	}
	return merged, cellAt
}

func mappingKey(m CellMapping) [3]int {
	return [3]int{m.Base, m.Current, m.Incoming}
}

// pickCell chooses which version of a mapped cell enters the merged
// notebook. Nil means the cell was deleted from both sides.
func pickCell(m CellMapping) *notebook.Cell {
	switch {
	case m.HasCurrent() && m.HasIncoming() && m.HasBase():
		// One-sided change adopts the changed side.
		if cellEqual(*m.CurrentCell, *m.BaseCell) && !cellEqual(*m.IncomingCell, *m.BaseCell) {
			return m.IncomingCell
		}
		return m.CurrentCell
	case m.HasCurrent():
		return m.CurrentCell
	case m.HasIncoming():
		return m.IncomingCell
	default:
		return nil
	}
}

func cellEqual(a, b notebook.Cell) bool {
	return a.Kind == b.Kind &&
		notebook.SameSource(a, b) &&
		notebook.MetadataEqual(a.Metadata, b.Metadata) &&
		notebook.OutputsEqual(a.Outputs, b.Outputs) &&
		notebook.ExecutionCountEqual(a.ExecutionCount, b.ExecutionCount)
}

// whitespaceOnly reports whether a modified/added conflict's two sides
// differ only in incidental whitespace.
func whitespaceOnly(c SemanticConflict) bool {
	if c.Kind != ConflictCellModified && c.Kind != ConflictCellAdded {
		return false
	}
	m := c.Mapping
	if m.CurrentCell == nil || m.IncomingCell == nil {
		return false
	}
	return notebook.CollapseWhitespace(m.CurrentCell.Source) ==
		notebook.CollapseWhitespace(m.IncomingCell.Source)
}

// resolveKernel overwrites the merged notebook's kernel metadata from the
// winning side when the kernel/language metadata diverges between the
// versions. Reports whether a divergence was resolved.
func resolveKernel(in Input, merged *notebook.Notebook, side KernelSide) bool {
	curKernel := in.Current.KernelMetadata()
	incKernel := in.Incoming.KernelMetadata()

	diverged := !notebook.MetadataEqual(curKernel, incKernel)
	if !diverged && in.Base != nil {
		diverged = !notebook.MetadataEqual(curKernel, in.Base.KernelMetadata())
	}
	if !diverged {
		return false
	}

	winner := in.Current
	if side == KernelPreferIncoming {
		winner = in.Incoming
	}
	if merged.Metadata == nil {
		merged.Metadata = make(map[string]any, 2)
	}
	for k, v := range winner.Clone().KernelMetadata() {
		merged.Metadata[k] = v
	}
	return true
}

// kernelSide returns the configured precedence, defaulting to current.
func (p ResolutionPolicy) kernelSide() KernelSide {
	if p.KernelPrecedence == KernelPreferIncoming {
		return KernelPreferIncoming
	}
	return KernelPreferCurrent
}
