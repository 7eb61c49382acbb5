package merge

// DetectReordering reports whether the relative order of triple-matched
// cells differs between the three versions. It considers only mappings with
// all three indices defined, in list order, and compares each adjacent pair:
// if the three "index increased" signals disagree, the versions order those
// cells differently.
//
// Only adjacent inversions in the filtered list are checked; a reordering
// visible solely between non-adjacent entries goes undetected. Known
// limitation, kept for predictability.
func DetectReordering(mappings []CellMapping) bool {
	var triples []CellMapping
	for _, m := range mappings {
		if m.HasBase() && m.HasCurrent() && m.HasIncoming() {
			triples = append(triples, m)
		}
	}
	if len(triples) < 2 {
		return false
	}

	for i := 1; i < len(triples); i++ {
		prev, curr := triples[i-1], triples[i]
		baseUp := curr.Base > prev.Base
		currentUp := curr.Current > prev.Current
		incomingUp := curr.Incoming > prev.Incoming
		if baseUp != currentUp || currentUp != incomingUp {
			return true
		}
	}
	return false
}
