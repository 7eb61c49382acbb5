// Package ipynb reads and writes the on-disk Jupyter notebook format
// (nbformat v4) to and from the internal/notebook model. Multi-line sources
// arrive as line-fragment arrays and are joined into one string; the merge
// core never sees fragments.
package ipynb

import (
	"fmt"
	"os"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/dusk-indust/nbmerge/internal/notebook"
)

// Written on serialization. Cell ids (nbformat >= 4.5) are intentionally not
// preserved: the merge model has no stable cell identity.
const (
	formatMajor = 4
	formatMinor = 4
)

type rawNotebook struct {
	Cells         []rawCell      `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

type rawCell struct {
	CellType       string            `json:"cell_type"`
	Source         json.RawMessage   `json:"source"`
	Metadata       map[string]any    `json:"metadata"`
	ExecutionCount *int              `json:"execution_count,omitempty"`
	Outputs        []notebook.Output `json:"outputs,omitempty"`
}

// Parse decodes a serialized notebook and validates it against the
// structural model.
func Parse(data []byte) (*notebook.Notebook, error) {
	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse notebook: %w", err)
	}
	if raw.NBFormat != 0 && raw.NBFormat != formatMajor {
		return nil, fmt.Errorf("parse notebook: unsupported nbformat %d", raw.NBFormat)
	}

	nb := &notebook.Notebook{Metadata: raw.Metadata}
	for i, rc := range raw.Cells {
		kind, err := cellKind(rc.CellType)
		if err != nil {
			return nil, fmt.Errorf("parse notebook: cell %d: %w", i, err)
		}
		source, err := decodeSource(rc.Source)
		if err != nil {
			return nil, fmt.Errorf("parse notebook: cell %d: %w", i, err)
		}
		nb.Cells = append(nb.Cells, notebook.Cell{
			Kind:           kind,
			Source:         source,
			Metadata:       rc.Metadata,
			ExecutionCount: rc.ExecutionCount,
			Outputs:        rc.Outputs,
		})
	}

	if err := notebook.Validate(nb); err != nil {
		return nil, err
	}
	return nb, nil
}

// ParseFile reads and parses a notebook file.
func ParseFile(path string) (*notebook.Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Serialize encodes a notebook as nbformat v4 JSON. Sources are written as
// line-fragment arrays the way Jupyter does; code cells always carry an
// outputs list and an execution_count field (null when never executed).
func Serialize(nb *notebook.Notebook) ([]byte, error) {
	metadata := nb.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	cells := make([]map[string]any, 0, len(nb.Cells))
	for _, c := range nb.Cells {
		cellMeta := c.Metadata
		if cellMeta == nil {
			cellMeta = map[string]any{}
		}
		cd := map[string]any{
			"cell_type": string(c.Kind),
			"source":    splitLines(c.Source),
			"metadata":  cellMeta,
		}
		if c.Kind == notebook.KindCode {
			// The format requires both fields on code cells;
			// execution_count serializes as null when never executed.
			cd["execution_count"] = c.ExecutionCount
			outputs := c.Outputs
			if outputs == nil {
				outputs = []notebook.Output{}
			}
			cd["outputs"] = outputs
		}
		cells = append(cells, cd)
	}

	doc := map[string]any{
		"cells":          cells,
		"metadata":       metadata,
		"nbformat":       formatMajor,
		"nbformat_minor": formatMinor,
	}
	return json.MarshalIndent(doc, "", " ")
}

// WriteFile serializes a notebook to disk.
func WriteFile(path string, nb *notebook.Notebook) error {
	data, err := Serialize(nb)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write notebook: %w", err)
	}
	return nil
}

func cellKind(cellType string) (notebook.CellKind, error) {
	switch cellType {
	case "code":
		return notebook.KindCode, nil
	case "markdown":
		return notebook.KindMarkdown, nil
	case "raw":
		return notebook.KindRaw, nil
	default:
		return "", fmt.Errorf("unknown cell_type %q", cellType)
	}
}

// decodeSource accepts both source encodings the format allows: a single
// string or an array of line fragments.
func decodeSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("source is neither string nor string array")
	}
	return strings.Join(lines, ""), nil
}

// splitLines cuts a source string into Jupyter-style line fragments, each
// keeping its trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
