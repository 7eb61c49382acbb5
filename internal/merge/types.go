// Package merge implements the three-way notebook reconciliation core:
// content-based cell matching across a common ancestor and two divergent
// versions, a globally ordered correspondence view, a semantic conflict
// taxonomy, and policy-driven auto-resolution.
//
// Every operation is a pure function of its inputs; caller-supplied
// notebooks are never mutated. Concurrent calls on independent inputs are
// safe without locking.
package merge

import (
	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// NoIndex marks an absent position in a CellMapping.
const NoIndex = -1

// defaultThreshold is the similarity cutoff used by the pairwise matcher.
const defaultThreshold = 0.7

// Input bundles the three versions participating in one merge.
// Base is nil when no common ancestor exists.
type Input struct {
	Base     *notebook.Notebook
	Current  *notebook.Notebook
	Incoming *notebook.Notebook
}

// CellMapping correlates one logical cell across up to three versions.
// Indices are positions into the respective notebook's cell list, NoIndex
// when the cell is absent from that version. At least one index is always
// defined, and a given (version, index) pair appears in at most one mapping.
type CellMapping struct {
	Base     int
	Current  int
	Incoming int

	// Cell snapshots for each defined index. Never mutated by the core.
	BaseCell     *notebook.Cell
	CurrentCell  *notebook.Cell
	IncomingCell *notebook.Cell

	// Confidence is the match confidence in [0,1]. Base-anchored mappings
	// carry a fixed 0.9; similarity-paired leftovers carry the actual score;
	// single-version mappings carry 1.0.
	Confidence float64
}

// HasBase reports whether the mapping covers a base cell.
func (m CellMapping) HasBase() bool { return m.Base != NoIndex }

// HasCurrent reports whether the mapping covers a current cell.
func (m CellMapping) HasCurrent() bool { return m.Current != NoIndex }

// HasIncoming reports whether the mapping covers an incoming cell.
func (m CellMapping) HasIncoming() bool { return m.Incoming != NoIndex }

// Anchor is the primary sort key when ordering mappings: the first defined
// of base, current, incoming index, else 0.
func (m CellMapping) Anchor() int {
	switch {
	case m.Base != NoIndex:
		return m.Base
	case m.Current != NoIndex:
		return m.Current
	case m.Incoming != NoIndex:
		return m.Incoming
	default:
		return 0
	}
}

// ConflictKind classifies a semantic disagreement between matched cells.
type ConflictKind string

const (
	ConflictCellAdded      ConflictKind = "cell-added"
	ConflictCellDeleted    ConflictKind = "cell-deleted"
	ConflictCellModified   ConflictKind = "cell-modified"
	ConflictCellReordered  ConflictKind = "cell-reordered"
	ConflictMetadata       ConflictKind = "metadata-changed"
	ConflictOutputs        ConflictKind = "outputs-changed"
	ConflictExecutionCount ConflictKind = "execution-count-changed"
)

// SemanticConflict is one classified disagreement. The ID exists so external
// layers (interactive resolution, MCP clients) can reference a conflict
// across calls; it carries no meaning inside the core.
type SemanticConflict struct {
	ID          string
	Kind        ConflictKind
	Mapping     CellMapping // back-reference; zero-valued for list-level conflicts
	Description string
}

// KernelSide selects which version wins a kernel-version auto-resolution.
type KernelSide string

const (
	KernelPreferCurrent  KernelSide = "current"
	KernelPreferIncoming KernelSide = "incoming"
)

// ResolutionPolicy gates auto-resolution per conflict kind. A disabled
// toggle leaves matching conflicts in the remaining list.
type ResolutionPolicy struct {
	ResolveExecutionCounts bool       `yaml:"resolveExecutionCounts"`
	ResolveOutputs         bool       `yaml:"resolveOutputs"`
	ResolveWhitespace      bool       `yaml:"resolveWhitespace"`
	ResolveKernelVersion   bool       `yaml:"resolveKernelVersion"`
	KernelPrecedence       KernelSide `yaml:"kernelPrecedence,omitempty"` // defaults to current
}

// DefaultPolicy enables every auto-resolution toggle with current-side
// kernel precedence.
func DefaultPolicy() ResolutionPolicy {
	return ResolutionPolicy{
		ResolveExecutionCounts: true,
		ResolveOutputs:         true,
		ResolveWhitespace:      true,
		ResolveKernelVersion:   true,
		KernelPrecedence:       KernelPreferCurrent,
	}
}

// Result is the outcome of auto-resolution: a provisional merged notebook,
// descriptions of what was resolved automatically, and the conflicts still
// needing a human decision, in original detection order.
type Result struct {
	Merged         *notebook.Notebook
	Resolved       []string
	Remaining      []SemanticConflict
	KernelResolved bool
}
