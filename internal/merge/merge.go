package merge

// Merge runs the full reconciliation pipeline: match cells across the three
// versions, classify disagreements, and apply the auto-resolution policy.
// It returns the resolution result together with the ordered mapping list.
func Merge(in Input, policy ResolutionPolicy) (Result, []CellMapping, error) {
	mappings, err := Reconcile(in)
	if err != nil {
		return Result{}, nil, err
	}
	conflicts := Classify(mappings)
	return AutoResolve(in, mappings, conflicts, policy), mappings, nil
}
