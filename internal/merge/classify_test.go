package merge

import (
	"testing"

	"github.com/dusk-indust/nbmerge/internal/notebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kinds extracts the conflict kinds from a conflict list, in order.
func kinds(conflicts []SemanticConflict) []ConflictKind {
	out := make([]ConflictKind, len(conflicts))
	for i, c := range conflicts {
		out[i] = c.Kind
	}
	return out
}

// classifyInput reconciles and classifies in one step.
func classifyInput(t *testing.T, in Input) []SemanticConflict {
	t.Helper()
	mappings, err := Reconcile(in)
	require.NoError(t, err)
	return Classify(mappings)
}

func TestClassify_NoConflictsOnAgreement(t *testing.T) {
	base := nb(codeCell("a"), mdCell("# doc"))
	conflicts := classifyInput(t, Input{Base: base, Current: base.Clone(), Incoming: base.Clone()})
	assert.Empty(t, conflicts)
}

func TestClassify_BothAddedIdentical(t *testing.T) {
	// Both sides append the same cell: matched without base, no conflict.
	a := codeCell("cell A")
	added := codeCell("shared addition")

	conflicts := classifyInput(t, Input{
		Base:     nb(a),
		Current:  nb(a, added),
		Incoming: nb(a, added),
	})
	assert.Empty(t, conflicts)
}

func TestClassify_BothAddedDivergent(t *testing.T) {
	a := codeCell("cell A")

	conflicts := classifyInput(t, Input{
		Base:     nb(a),
		Current:  nb(a, codeCell("plt.plot(xs, ys)")),
		Incoming: nb(a, codeCell("plt.plot(xs, zs)")),
	})

	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictCellAdded, conflicts[0].Kind)
	assert.NotNil(t, conflicts[0].Mapping.CurrentCell)
	assert.NotNil(t, conflicts[0].Mapping.IncomingCell)
	assert.NotEmpty(t, conflicts[0].ID)
}

func TestClassify_BothAddedSameSourceDifferentMetadata(t *testing.T) {
	a := codeCell("cell A")
	curAdd := notebook.Cell{Kind: notebook.KindCode, Source: "x = 1", Metadata: map[string]any{"tags": []any{"keep"}}}
	incAdd := notebook.Cell{Kind: notebook.KindCode, Source: "x = 1"}

	conflicts := classifyInput(t, Input{
		Base:     nb(a),
		Current:  nb(a, curAdd),
		Incoming: nb(a, incAdd),
	})

	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictMetadata, conflicts[0].Kind)
}

func TestClassify_SingleSidedAdd(t *testing.T) {
	a := codeCell("cell A")

	conflicts := classifyInput(t, Input{
		Base:     nb(a),
		Current:  nb(a),
		Incoming: nb(a, codeCell("only here")),
	})

	require.Equal(t, []ConflictKind{ConflictCellAdded}, kinds(conflicts))
	assert.Contains(t, conflicts[0].Description, "incoming")
}

func TestClassify_Deletion(t *testing.T) {
	a, b := codeCell("cell A"), codeCell("cell B")

	conflicts := classifyInput(t, Input{
		Base:     nb(a, b),
		Current:  nb(a),
		Incoming: nb(a, b),
	})

	require.Equal(t, []ConflictKind{ConflictCellDeleted}, kinds(conflicts))
	assert.Contains(t, conflicts[0].Description, "current")
}

func TestClassify_DeletedOnBothSides(t *testing.T) {
	a, b := codeCell("cell A"), codeCell("cell B")

	conflicts := classifyInput(t, Input{
		Base:     nb(a, b),
		Current:  nb(a),
		Incoming: nb(a),
	})
	assert.Empty(t, conflicts, "agreeing deletions are not conflicts")
}

func TestClassify_DivergentModification(t *testing.T) {
	conflicts := classifyInput(t, Input{
		Base:     nb(codeCell("x = compute_all(data)")),
		Current:  nb(codeCell("x = compute_all(data2)")),
		Incoming: nb(codeCell("x = compute_all(data3)")),
	})

	assert.Equal(t, []ConflictKind{ConflictCellModified}, kinds(conflicts))
}

func TestClassify_OneSidedModificationIsNotAConflict(t *testing.T) {
	conflicts := classifyInput(t, Input{
		Base:     nb(codeCell("x = compute_all(data)")),
		Current:  nb(codeCell("x = compute_all(data)")),
		Incoming: nb(codeCell("x = compute_all(data3)")),
	})
	assert.Empty(t, conflicts)
}

func TestClassify_OutputsAndExecutionCountIndependent(t *testing.T) {
	mk := func(ec int, outText string) notebook.Cell {
		return notebook.Cell{
			Kind:           notebook.KindCode,
			Source:         "df.describe()",
			ExecutionCount: intp(ec),
			Outputs:        []notebook.Output{{"output_type": "stream", "text": outText}},
		}
	}

	conflicts := classifyInput(t, Input{
		Base:     nb(mk(1, "v1")),
		Current:  nb(mk(5, "v2")),
		Incoming: nb(mk(10, "v3")),
	})

	// Same source on all sides: no cell-modified conflict, but both the
	// outputs and the execution count diverged pairwise.
	assert.ElementsMatch(t,
		[]ConflictKind{ConflictOutputs, ConflictExecutionCount},
		kinds(conflicts))
}

func TestClassify_ExecutionCountThreeWayDivergence(t *testing.T) {
	mk := func(ec int) notebook.Cell {
		return notebook.Cell{Kind: notebook.KindCode, Source: "run()", ExecutionCount: intp(ec)}
	}

	conflicts := classifyInput(t, Input{
		Base:     nb(mk(1)),
		Current:  nb(mk(5)),
		Incoming: nb(mk(10)),
	})

	assert.Equal(t, []ConflictKind{ConflictExecutionCount}, kinds(conflicts))
}

func TestClassify_ExecutionCountTwoWayAgreementIsNotAConflict(t *testing.T) {
	mk := func(ec *int) notebook.Cell {
		return notebook.Cell{Kind: notebook.KindCode, Source: "run()", ExecutionCount: ec}
	}

	// Current and incoming agree with each other; only base differs.
	conflicts := classifyInput(t, Input{
		Base:     nb(mk(intp(1))),
		Current:  nb(mk(intp(7))),
		Incoming: nb(mk(intp(7))),
	})
	assert.Empty(t, conflicts)

	// One side never executed the cell, the other two agree.
	conflicts = classifyInput(t, Input{
		Base:     nb(mk(intp(1))),
		Current:  nb(mk(nil)),
		Incoming: nb(mk(intp(1))),
	})
	assert.Empty(t, conflicts)
}

func TestClassify_ReorderedEmitsSingleListLevelConflict(t *testing.T) {
	a, b := codeCell("cell A body"), codeCell("cell B body")

	conflicts := classifyInput(t, Input{
		Base:     nb(a, b),
		Current:  nb(a, b),
		Incoming: nb(b, a),
	})

	require.Equal(t, []ConflictKind{ConflictCellReordered}, kinds(conflicts))
	assert.False(t, conflicts[0].Mapping.HasBase())
}

func TestClassify_ReorderedIsAdditive(t *testing.T) {
	// A reorder plus a divergent modification: both conflicts surface.
	a, b := codeCell("cell A body"), codeCell("cell B body")

	conflicts := classifyInput(t, Input{
		Base:     nb(a, b, codeCell("x = f(data)")),
		Current:  nb(a, b, codeCell("x = f(datum)")),
		Incoming: nb(b, a, codeCell("x = f(dataZ)")),
	})

	assert.ElementsMatch(t,
		[]ConflictKind{ConflictCellModified, ConflictCellReordered},
		kinds(conflicts))
}
