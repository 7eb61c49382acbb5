package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForLanguage(t *testing.T) {
	for _, lang := range []string{"python", "go", "rust", "typescript"} {
		_, ok := ForLanguage(lang)
		assert.True(t, ok, lang)
	}

	_, ok := ForLanguage("cobol")
	assert.False(t, ok)
}

func TestDefinitions_Python(t *testing.T) {
	e, ok := ForLanguage("python")
	require.True(t, ok)

	defs, err := e.Definitions(`
import numpy as np

def load(path):
    return np.load(path)

@cached
def transform(df):
    return df.dropna()

class Pipeline:
    pass

x = load("data.npy")
`)
	require.NoError(t, err)

	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"load", "transform", "Pipeline"}, names)
}

func TestDefinitions_Go(t *testing.T) {
	e, ok := ForLanguage("go")
	require.True(t, ok)

	defs, err := e.Definitions(`
package main

type Row struct{ N int }

func Sum(rows []Row) int {
	total := 0
	for _, r := range rows {
		total += r.N
	}
	return total
}
`)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "Row", defs[0].Name)
	assert.Equal(t, "Sum", defs[1].Name)
}

func TestChanged(t *testing.T) {
	e, ok := ForLanguage("python")
	require.True(t, ok)

	a := `
def load(path):
    return read(path)

def plot(df):
    df.plot()
`
	b := `
def load(path):
    return read_csv(path)

def plot(df):
    df.plot()

def save(df, path):
    df.to_csv(path)
`

	changed, err := e.Changed(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"load", "save"}, changed, "edited and added, but not untouched")
}

func TestChanged_Identical(t *testing.T) {
	e, ok := ForLanguage("python")
	require.True(t, ok)

	src := "def f():\n    return 1\n"
	changed, err := e.Changed(src, src)
	require.NoError(t, err)
	assert.Empty(t, changed)
}
