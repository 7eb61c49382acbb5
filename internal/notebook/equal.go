package notebook

import (
	"reflect"
	"strings"
)

// NormalizeSource canonicalizes a cell source for comparison: line endings
// become LF and a single trailing newline is dropped. The stored Source is
// left untouched; normalization applies only when comparing.
func NormalizeSource(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSuffix(s, "\n")
}

// NormalizedSource returns the cell's source after NormalizeSource.
func (c Cell) NormalizedSource() string {
	return NormalizeSource(c.Source)
}

// CollapseWhitespace reduces every run of whitespace to a single space and
// strips leading/trailing whitespace. Two sources that collapse to the same
// string differ only in incidental whitespace.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SameSource reports whether two cells have equal normalized sources.
func SameSource(a, b Cell) bool {
	return a.NormalizedSource() == b.NormalizedSource()
}

// MetadataEqual compares two metadata bags structurally. nil and empty maps
// are considered equal.
func MetadataEqual(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// OutputsEqual compares two output lists structurally, order-sensitive.
// nil and empty lists are considered equal.
func OutputsEqual(a, b []Output) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ExecutionCountEqual compares two nullable execution counts.
func ExecutionCountEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
