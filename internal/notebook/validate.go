package notebook

import (
	"errors"
	"fmt"
)

// ErrMalformed marks a notebook that does not satisfy the structural model.
// Callers match it with errors.Is and decide whether to abort or fall back
// to textual handling.
var ErrMalformed = errors.New("malformed notebook")

// Validate checks a notebook against the structural model. Merge operations
// are total over validated input; a validation failure is the only
// structural error the core raises.
func Validate(nb *Notebook) error {
	if nb == nil {
		return fmt.Errorf("%w: nil notebook", ErrMalformed)
	}
	for i, c := range nb.Cells {
		switch c.Kind {
		case KindCode, KindMarkdown, KindRaw:
		case "":
			return fmt.Errorf("%w: cell %d has no kind", ErrMalformed, i)
		default:
			return fmt.Errorf("%w: cell %d has unknown kind %q", ErrMalformed, i, c.Kind)
		}
		if c.Kind != KindCode {
			if c.ExecutionCount != nil {
				return fmt.Errorf("%w: %s cell %d carries an execution count", ErrMalformed, c.Kind, i)
			}
			if len(c.Outputs) > 0 {
				return fmt.Errorf("%w: %s cell %d carries outputs", ErrMalformed, c.Kind, i)
			}
		}
	}
	return nil
}
