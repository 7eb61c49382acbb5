package merge

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// Fingerprint returns a deterministic content hash over a cell's kind and
// normalized source. Equal fingerprints are treated as identical cells;
// the collision risk of SHA-256 is accepted as negligible.
func Fingerprint(c notebook.Cell) string {
	h := sha256.New()
	h.Write([]byte(c.Kind))
	h.Write([]byte{0})
	h.Write([]byte(c.NormalizedSource()))
	return hex.EncodeToString(h.Sum(nil))
}

// Similarity scores how alike two cells are, in [0,1]. Cells of different
// kinds score 0. Equal normalized sources (including both empty) score 1.
// Exactly one empty source scores 0. Otherwise the score is
// 1 - editDistance/maxLen over the normalized sources.
func Similarity(a, b notebook.Cell) float64 {
	if a.Kind != b.Kind {
		return 0
	}
	sa := a.NormalizedSource()
	sb := b.NormalizedSource()
	if sa == sb {
		return 1
	}
	if sa == "" || sb == "" {
		return 0
	}
	ra := []rune(sa)
	rb := []rune(sb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1 - float64(editDistance(ra, rb))/float64(maxLen)
}

// editDistance computes the Levenshtein distance between two rune slices
// with unit-cost insert, delete, and substitute, using a two-row DP table.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // delete
				curr[j-1]+1,    // insert
				prev[j-1]+cost, // substitute
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
