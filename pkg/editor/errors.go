package editor

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-projection-editor/pkg/document"
)

var (
	// ErrMalformedImport marks import text that is not valid JSON.
	ErrMalformedImport = errors.New("editor: malformed import")
	// ErrUnknownField is returned for field names the variant does not declare.
	ErrUnknownField = errors.New("editor: unknown field")
	// ErrUnknownOption is returned for values outside a closed vocabulary.
	ErrUnknownOption = errors.New("editor: option not in vocabulary")
	// ErrUnknownFlag is returned for boolean fields the variant does not declare.
	ErrUnknownFlag = errors.New("editor: unknown flag")
	// ErrNoSharedHandlers is returned when the variant keeps handlers per dynamic.
	ErrNoSharedHandlers = errors.New("editor: variant has no shared action handlers")
	// ErrNoDynamicHandlers is returned when the variant keeps one shared list.
	ErrNoDynamicHandlers = errors.New("editor: variant has no per-dynamic action handlers")
	// ErrShapeMismatch is returned when an imported document holds a value of
	// another kind where an edit needs a list or an object. The document is
	// left unchanged.
	ErrShapeMismatch = document.ErrShapeMismatch
)

// ImportError carries the decoder message shown to the user in place of the
// rejected input.
type ImportError struct {
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("editor: import: %s", e.Message)
}

// Unwrap exposes both the sentinel and the decoder error.
func (e *ImportError) Unwrap() []error {
	return []error{ErrMalformedImport, e.Err}
}

// Feedback returns the text that replaces the import input after an import
// attempt: empty on success, the decoder message on failure.
func Feedback(err error) string {
	if err == nil {
		return ""
	}
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr.Message
	}
	return err.Error()
}
