package merge

import (
	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// matchResult is the partial injective mapping produced by matchCells:
// reference index to candidate index, plus the indices left unmatched on
// each side in ascending order.
type matchResult struct {
	pairs         map[int]int
	unmatchedRef  []int
	unmatchedCand []int
}

// matchCells maps cells of a reference sequence onto a candidate sequence.
// An exact pass pairs equal fingerprints first (each reference cell, in
// order, takes the first unused candidate with the same fingerprint). When
// exactOnly is false, a similarity pass then pairs each remaining reference
// cell with the unused candidate of strictly highest similarity, provided
// the score strictly exceeds threshold; ties favor the lowest candidate
// index since replacement requires strict improvement.
//
// Greedy and O(|ref|*|cand|) worst case. Not globally optimal; determinism
// and predictability are preferred over an assignment-optimal matcher.
func matchCells(ref, cand []notebook.Cell, threshold float64, exactOnly bool) matchResult {
	res := matchResult{pairs: make(map[int]int, len(ref))}

	usedCand := make([]bool, len(cand))
	candPrints := make([]string, len(cand))
	for j, c := range cand {
		candPrints[j] = Fingerprint(c)
	}

	// Exact pass.
	for i, r := range ref {
		fp := Fingerprint(r)
		for j := range cand {
			if !usedCand[j] && candPrints[j] == fp {
				res.pairs[i] = j
				usedCand[j] = true
				break
			}
		}
	}

	// Similarity pass.
	if !exactOnly {
		for i, r := range ref {
			if _, ok := res.pairs[i]; ok {
				continue
			}
			best, bestScore := NoIndex, threshold
			for j, c := range cand {
				if usedCand[j] {
					continue
				}
				if s := Similarity(r, c); s > bestScore {
					best, bestScore = j, s
				}
			}
			if best != NoIndex {
				res.pairs[i] = best
				usedCand[best] = true
			}
		}
	}

	for i := range ref {
		if _, ok := res.pairs[i]; !ok {
			res.unmatchedRef = append(res.unmatchedRef, i)
		}
	}
	for j := range cand {
		if !usedCand[j] {
			res.unmatchedCand = append(res.unmatchedCand, j)
		}
	}

	return res
}
