// Package symbols extracts top-level definitions from code cell sources
// using tree-sitter, keyed by the notebook's kernel language. The merge core
// never depends on it; callers use it to annotate cell-modified conflicts
// with the definitions that actually changed.
package symbols

import (
	"fmt"
	"sort"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Definition is one top-level definition found in a code cell.
type Definition struct {
	Name string
	Text string // full node source, used to detect in-place edits
}

// Extractor parses code cell sources for one kernel language. A new
// tree-sitter parser is created per call, so an Extractor is safe for
// sequential reuse.
type Extractor struct {
	language *tree_sitter.Language
	topLevel map[string]bool // node kinds treated as definitions
}

// Per-language definition node kinds.
var languageKinds = map[string][]string{
	"python":     {"function_definition", "class_definition"},
	"go":         {"function_declaration", "method_declaration", "type_declaration"},
	"rust":       {"function_item", "struct_item", "enum_item"},
	"typescript": {"function_declaration", "class_declaration"},
}

// ForLanguage returns an extractor for the given kernel language name
// (lower case), or false when the language has no registered grammar.
func ForLanguage(name string) (*Extractor, bool) {
	var lang *tree_sitter.Language
	switch name {
	case "python":
		lang = tree_sitter.NewLanguage(tree_sitter_python.Language())
	case "go":
		lang = tree_sitter.NewLanguage(tree_sitter_go.Language())
	case "rust":
		lang = tree_sitter.NewLanguage(tree_sitter_rust.Language())
	case "typescript":
		lang = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	default:
		return nil, false
	}

	kinds := make(map[string]bool)
	for _, k := range languageKinds[name] {
		kinds[k] = true
	}
	return &Extractor{language: lang, topLevel: kinds}, true
}

// Definitions parses a cell source and returns its top-level definitions in
// source order. Unparseable input yields an error rather than partial
// results.
func (e *Extractor) Definitions(source string) ([]Definition, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree")
	}
	defer tree.Close()

	var defs []Definition
	root := tree.RootNode()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		e.collect(node, src, &defs)
	}
	return defs, nil
}

// collect appends the definition for a top-level node, unwrapping Python
// decorated definitions and Go type declaration groups.
func (e *Extractor) collect(node *tree_sitter.Node, src []byte, defs *[]Definition) {
	kind := node.Kind()

	if kind == "decorated_definition" {
		if inner := node.ChildByFieldName("definition"); inner != nil {
			e.collect(inner, src, defs)
		}
		return
	}

	if !e.topLevel[kind] {
		return
	}

	if kind == "type_declaration" {
		for i := uint(0); i < node.NamedChildCount(); i++ {
			spec := node.NamedChild(i)
			if name := fieldText(spec, "name", src); name != "" {
				*defs = append(*defs, Definition{Name: name, Text: node.Utf8Text(src)})
			}
		}
		return
	}

	if name := fieldText(node, "name", src); name != "" {
		*defs = append(*defs, Definition{Name: name, Text: node.Utf8Text(src)})
	}
}

// Changed compares the definitions of two sources and returns the names
// added, removed, or edited between them, sorted. Definitions that appear in
// both sources with identical text are untouched.
func (e *Extractor) Changed(a, b string) ([]string, error) {
	defsA, err := e.Definitions(a)
	if err != nil {
		return nil, err
	}
	defsB, err := e.Definitions(b)
	if err != nil {
		return nil, err
	}

	byNameA := make(map[string]string, len(defsA))
	for _, d := range defsA {
		byNameA[d.Name] = d.Text
	}
	byNameB := make(map[string]string, len(defsB))
	for _, d := range defsB {
		byNameB[d.Name] = d.Text
	}

	changed := make(map[string]bool)
	for name, text := range byNameA {
		if other, ok := byNameB[name]; !ok || other != text {
			changed[name] = true
		}
	}
	for name := range byNameB {
		if _, ok := byNameA[name]; !ok {
			changed[name] = true
		}
	}

	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func fieldText(node *tree_sitter.Node, field string, src []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Utf8Text(src)
}
