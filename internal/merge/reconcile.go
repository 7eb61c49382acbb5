package merge

import (
	"fmt"
	"sort"

	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// Confidence levels assigned by the reconciler. Base-anchored mappings get
// a fixed confidence regardless of the underlying similarity scores;
// single-version mappings are certain by construction.
const (
	baseAnchoredConfidence = 0.9
	soleVersionConfidence  = 1.0
)

// Reconcile matches cells across base, current, and incoming and returns one
// globally ordered correspondence list covering every cell of every version
// exactly once. Base may be nil (no common ancestor).
func Reconcile(in Input) ([]CellMapping, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Base == nil {
		return reconcileNoBase(in.Current, in.Incoming), nil
	}
	return reconcileThreeWay(in.Base, in.Current, in.Incoming), nil
}

func validateInput(in Input) error {
	if in.Base != nil {
		if err := notebook.Validate(in.Base); err != nil {
			return fmt.Errorf("base: %w", err)
		}
	}
	if err := notebook.Validate(in.Current); err != nil {
		return fmt.Errorf("current: %w", err)
	}
	if err := notebook.Validate(in.Incoming); err != nil {
		return fmt.Errorf("incoming: %w", err)
	}
	return nil
}

// reconcileNoBase handles a merge with no common ancestor. Only the exact
// fingerprint pass runs; there is no similarity fallback. Mappings are
// emitted in current order, matched or current-only, followed by the
// remaining incoming-only cells.
func reconcileNoBase(current, incoming *notebook.Notebook) []CellMapping {
	res := matchCells(current.Cells, incoming.Cells, defaultThreshold, true)

	mappings := make([]CellMapping, 0, len(current.Cells)+len(res.unmatchedCand))
	for i := range current.Cells {
		m := CellMapping{
			Base:        NoIndex,
			Current:     i,
			Incoming:    NoIndex,
			CurrentCell: &current.Cells[i],
			Confidence:  soleVersionConfidence,
		}
		if j, ok := res.pairs[i]; ok {
			m.Incoming = j
			m.IncomingCell = &incoming.Cells[j]
		}
		mappings = append(mappings, m)
	}
	for _, j := range res.unmatchedCand {
		mappings = append(mappings, CellMapping{
			Base:         NoIndex,
			Current:      NoIndex,
			Incoming:     j,
			IncomingCell: &incoming.Cells[j],
			Confidence:   soleVersionConfidence,
		})
	}
	return mappings
}

// reconcileThreeWay runs the pairwise matcher independently for
// base→current and base→incoming, splices both partial mappings into one
// list, pairs residual current/incoming cells against each other, and sorts
// the result into a single global order.
func reconcileThreeWay(base, current, incoming *notebook.Notebook) []CellMapping {
	mc := matchCells(base.Cells, current.Cells, defaultThreshold, false)
	mi := matchCells(base.Cells, incoming.Cells, defaultThreshold, false)

	var mappings []CellMapping

	// One mapping per base cell, carrying whatever each independent match
	// produced for that index.
	for b := range base.Cells {
		m := CellMapping{
			Base:       b,
			Current:    NoIndex,
			Incoming:   NoIndex,
			BaseCell:   &base.Cells[b],
			Confidence: baseAnchoredConfidence,
		}
		if c, ok := mc.pairs[b]; ok {
			m.Current = c
			m.CurrentCell = &current.Cells[c]
		}
		if i, ok := mi.pairs[b]; ok {
			m.Incoming = i
			m.IncomingCell = &incoming.Cells[i]
		}
		mappings = append(mappings, m)
	}

	// Residual current cells: try to pair each against a residual incoming
	// cell with the similarity-pass rule.
	incomingLeft := make([]int, len(mi.unmatchedCand))
	copy(incomingLeft, mi.unmatchedCand)

	for _, c := range mc.unmatchedCand {
		best, bestScore := -1, defaultThreshold
		for pos, i := range incomingLeft {
			if s := Similarity(current.Cells[c], incoming.Cells[i]); s > bestScore {
				best, bestScore = pos, s
			}
		}
		m := CellMapping{
			Base:        NoIndex,
			Current:     c,
			Incoming:    NoIndex,
			CurrentCell: &current.Cells[c],
			Confidence:  soleVersionConfidence,
		}
		if best >= 0 {
			i := incomingLeft[best]
			m.Incoming = i
			m.IncomingCell = &incoming.Cells[i]
			m.Confidence = bestScore
			incomingLeft = append(incomingLeft[:best], incomingLeft[best+1:]...)
		}
		mappings = append(mappings, m)
	}

	// Whatever incoming cells remain are incoming-only.
	for _, i := range incomingLeft {
		mappings = append(mappings, CellMapping{
			Base:         NoIndex,
			Current:      NoIndex,
			Incoming:     i,
			IncomingCell: &incoming.Cells[i],
			Confidence:   soleVersionConfidence,
		})
	}

	sortMappings(mappings)
	return mappings
}

// sortMappings orders mappings by anchor, breaking ties by incoming, then
// current, then base index, considering only fields both mappings define.
// The incoming-first tie-break keeps a newly inserted cell ordered before a
// cell pushed later by that insertion when both share an anchor. Pairs left
// undecided (no shared tie-break field) keep their emission order.
func sortMappings(mappings []CellMapping) {
	sort.SliceStable(mappings, func(x, y int) bool {
		a, b := mappings[x], mappings[y]
		if a.Anchor() != b.Anchor() {
			return a.Anchor() < b.Anchor()
		}
		if a.Incoming != NoIndex && b.Incoming != NoIndex && a.Incoming != b.Incoming {
			return a.Incoming < b.Incoming
		}
		if a.Current != NoIndex && b.Current != NoIndex && a.Current != b.Current {
			return a.Current < b.Current
		}
		if a.Base != NoIndex && b.Base != NoIndex && a.Base != b.Base {
			return a.Base < b.Base
		}
		return false
	})
}
