//go:build e2e

package e2e

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/nbmerge/internal/ipynb"
	"github.com/dusk-indust/nbmerge/internal/merge"
	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// loadFixture parses one of the notebook fixtures under testdata.
func loadFixture(t *testing.T, name string) *notebook.Notebook {
	t.Helper()

	path := filepath.Join("..", "..", "testdata", "fixtures", "notebooks", name)
	nb, err := ipynb.ParseFile(path)
	require.NoError(t, err)
	return nb
}

func fixtureInput(t *testing.T) merge.Input {
	t.Helper()

	return merge.Input{
		Base:     loadFixture(t, "base.ipynb"),
		Current:  loadFixture(t, "current.ipynb"),
		Incoming: loadFixture(t, "incoming.ipynb"),
	}
}

// TestMerge_E2E_DefaultPolicy runs the full pipeline over the fixture
// notebooks: a three-way divergence with execution count churn, regenerated
// outputs, a one-sided source edit, a one-sided addition, and a kernel
// version bump on each side.
func TestMerge_E2E_DefaultPolicy(t *testing.T) {
	in := fixtureInput(t)

	result, mappings, err := merge.Merge(in, merge.DefaultPolicy())
	require.NoError(t, err)

	require.Len(t, mappings, 5)
	require.Len(t, result.Merged.Cells, 5)

	// Execution count divergence on the import cell is cleared.
	assert.Nil(t, result.Merged.Cells[0].ExecutionCount)

	// The one-sided source edit is adopted without a conflict.
	assert.Contains(t, result.Merged.Cells[1].Source, "sep=';'")

	// Divergently regenerated outputs are cleared.
	assert.Nil(t, result.Merged.Cells[3].Outputs)

	// The cell added only in current survives at the end.
	last := result.Merged.Cells[4]
	assert.Equal(t, notebook.KindMarkdown, last.Kind)
	assert.Equal(t, "## Conclusions", last.Source)

	// Kernel divergence resolves to the current side.
	assert.True(t, result.KernelResolved)
	info, ok := result.Merged.Metadata[notebook.MetaLanguageInfo].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "3.11.2", info["version"])

	assert.Len(t, result.Resolved, 3)

	// Only the one-sided addition needs a human decision.
	require.Len(t, result.Remaining, 1)
	assert.Equal(t, merge.ConflictCellAdded, result.Remaining[0].Kind)
}

// TestMerge_E2E_IncomingKernel flips the kernel precedence and checks the
// incoming version wins.
func TestMerge_E2E_IncomingKernel(t *testing.T) {
	in := fixtureInput(t)

	policy := merge.DefaultPolicy()
	policy.KernelPrecedence = merge.KernelPreferIncoming

	result, _, err := merge.Merge(in, policy)
	require.NoError(t, err)
	require.True(t, result.KernelResolved)

	info, ok := result.Merged.Metadata[notebook.MetaLanguageInfo].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "3.12.0", info["version"])
}

// TestMerge_E2E_NoAncestor drops the base fixture: only exact matches pair
// up, every divergent cell surfaces as an addition, and nothing beyond the
// kernel metadata is auto-resolved.
func TestMerge_E2E_NoAncestor(t *testing.T) {
	in := fixtureInput(t)
	in.Base = nil

	result, _, err := merge.Merge(in, merge.DefaultPolicy())
	require.NoError(t, err)

	// Three exact matches, the divergent read_csv cell from each side, and
	// the current-only conclusion cell.
	assert.Len(t, result.Merged.Cells, 6)

	require.Len(t, result.Remaining, 3)
	for _, c := range result.Remaining {
		assert.Equal(t, merge.ConflictCellAdded, c.Kind)
	}

	assert.True(t, result.KernelResolved)
}
