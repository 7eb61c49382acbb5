// Package notebook defines the in-memory model for a computational notebook:
// an ordered sequence of typed cells plus document-level metadata. The merge
// core operates on this model only; on-disk parsing lives in internal/ipynb.
package notebook

import "strings"

// CellKind identifies the type of a notebook cell.
type CellKind string

const (
	KindCode     CellKind = "code"
	KindMarkdown CellKind = "markdown"
	KindRaw      CellKind = "raw"
)

// Output is a single entry in a code cell's outputs list. The merge core
// treats it as opaque and only ever compares it structurally.
type Output map[string]any

// Cell is one content unit of a notebook. Cells carry no stable identifier;
// identity across versions is inferred from content by the merge core.
type Cell struct {
	Kind     CellKind
	Source   string // logically one string; line fragments are joined at parse time
	Metadata map[string]any

	// ExecutionCount and Outputs are meaningful for code cells only.
	// A nil ExecutionCount means the cell has never been executed.
	ExecutionCount *int
	Outputs        []Output
}

// Notebook is an ordered cell sequence plus top-level metadata
// (kernelspec / language_info live under well-known metadata keys).
type Notebook struct {
	Cells    []Cell
	Metadata map[string]any
}

// Well-known top-level metadata keys.
const (
	MetaKernelspec   = "kernelspec"
	MetaLanguageInfo = "language_info"
)

// Clone returns a deep copy of the cell. The merge core never mutates its
// inputs; any cell that ends up in a merged notebook is cloned first.
func (c Cell) Clone() Cell {
	out := c
	out.Metadata = cloneMap(c.Metadata)
	if c.ExecutionCount != nil {
		n := *c.ExecutionCount
		out.ExecutionCount = &n
	}
	if c.Outputs != nil {
		out.Outputs = make([]Output, len(c.Outputs))
		for i, o := range c.Outputs {
			out.Outputs[i] = Output(cloneMap(o))
		}
	}
	return out
}

// Clone returns a deep copy of the notebook.
func (nb *Notebook) Clone() *Notebook {
	if nb == nil {
		return nil
	}
	out := &Notebook{Metadata: cloneMap(nb.Metadata)}
	if nb.Cells != nil {
		out.Cells = make([]Cell, len(nb.Cells))
		for i, c := range nb.Cells {
			out.Cells[i] = c.Clone()
		}
	}
	return out
}

// Language returns the notebook's kernel language in lower case, preferring
// language_info.name over kernelspec.language. Empty when neither is set.
func (nb *Notebook) Language() string {
	if nb == nil {
		return ""
	}
	if s := nestedString(nb.Metadata, MetaLanguageInfo, "name"); s != "" {
		return strings.ToLower(s)
	}
	return strings.ToLower(nestedString(nb.Metadata, MetaKernelspec, "language"))
}

// KernelMetadata returns the subset of top-level metadata under the
// well-known kernel keys. Used for kernel-version conflict detection.
func (nb *Notebook) KernelMetadata() map[string]any {
	out := make(map[string]any, 2)
	if nb == nil {
		return out
	}
	for _, key := range []string{MetaKernelspec, MetaLanguageInfo} {
		if v, ok := nb.Metadata[key]; ok {
			out[key] = v
		}
	}
	return out
}

// cloneMap deep-copies a metadata-shaped map. Values are the types produced
// by JSON decoding (maps, slices, scalars).
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return t
	}
}

func nestedString(m map[string]any, key, sub string) string {
	inner, ok := m[key].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := inner[sub].(string)
	return s
}
