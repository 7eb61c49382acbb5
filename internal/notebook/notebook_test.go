package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"crlf to lf", "a\r\nb", "a\nb"},
		{"bare cr to lf", "a\rb", "a\nb"},
		{"trailing newline dropped", "a\nb\n", "a\nb"},
		{"only one trailing newline dropped", "a\n\n", "a\n"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSource(tt.in))
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\t b\n\nc "))
	assert.Equal(t, "", CollapseWhitespace(" \n\t "))
}

func TestMetadataEqual(t *testing.T) {
	assert.True(t, MetadataEqual(nil, map[string]any{}))
	assert.True(t, MetadataEqual(
		map[string]any{"tags": []any{"a"}},
		map[string]any{"tags": []any{"a"}}))
	assert.False(t, MetadataEqual(
		map[string]any{"tags": []any{"a"}},
		map[string]any{"tags": []any{"b"}}))
}

func TestOutputsEqual(t *testing.T) {
	a := []Output{{"output_type": "stream", "text": "hi"}}
	b := []Output{{"output_type": "stream", "text": "hi"}}
	c := []Output{{"output_type": "stream", "text": "bye"}}

	assert.True(t, OutputsEqual(nil, []Output{}))
	assert.True(t, OutputsEqual(a, b))
	assert.False(t, OutputsEqual(a, c))
	assert.False(t, OutputsEqual(a, append(b, Output{})))
}

func TestExecutionCountEqual(t *testing.T) {
	one, alsoOne, two := 1, 1, 2
	assert.True(t, ExecutionCountEqual(nil, nil))
	assert.True(t, ExecutionCountEqual(&one, &alsoOne))
	assert.False(t, ExecutionCountEqual(&one, &two))
	assert.False(t, ExecutionCountEqual(&one, nil))
}

func TestCellClone_DeepCopies(t *testing.T) {
	ec := 3
	orig := Cell{
		Kind:           KindCode,
		Source:         "x = 1",
		Metadata:       map[string]any{"collapsed": true},
		ExecutionCount: &ec,
		Outputs:        []Output{{"output_type": "stream", "text": "hi"}},
	}

	clone := orig.Clone()
	clone.Metadata["collapsed"] = false
	*clone.ExecutionCount = 99
	clone.Outputs[0]["text"] = "changed"

	assert.Equal(t, true, orig.Metadata["collapsed"])
	assert.Equal(t, 3, *orig.ExecutionCount)
	assert.Equal(t, "hi", orig.Outputs[0]["text"])
}

func TestNotebookLanguage(t *testing.T) {
	nb := &Notebook{Metadata: map[string]any{
		MetaLanguageInfo: map[string]any{"name": "Python"},
		MetaKernelspec:   map[string]any{"language": "r"},
	}}
	assert.Equal(t, "python", nb.Language(), "language_info wins and is lowercased")

	nb = &Notebook{Metadata: map[string]any{
		MetaKernelspec: map[string]any{"language": "Go"},
	}}
	assert.Equal(t, "go", nb.Language())

	assert.Empty(t, (&Notebook{}).Language())
}

func TestValidate(t *testing.T) {
	good := &Notebook{Cells: []Cell{
		{Kind: KindCode, Source: "x = 1", ExecutionCount: nil},
		{Kind: KindMarkdown, Source: "# hi"},
		{Kind: KindRaw},
	}}
	require.NoError(t, Validate(good))

	tests := []struct {
		name string
		nb   *Notebook
	}{
		{"nil notebook", nil},
		{"unknown kind", &Notebook{Cells: []Cell{{Kind: "mystery"}}}},
		{"missing kind", &Notebook{Cells: []Cell{{Source: "x"}}}},
		{"markdown with outputs", &Notebook{Cells: []Cell{
			{Kind: KindMarkdown, Outputs: []Output{{}}},
		}}},
		{"raw with execution count", &Notebook{Cells: []Cell{
			{Kind: KindRaw, ExecutionCount: new(int)},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.nb)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
