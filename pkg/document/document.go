package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrShapeMismatch is returned by Set when a value along the path exists but
// is not the container the path needs.
var ErrShapeMismatch = errors.New("document: container kind mismatch")

// Document holds one JSON value and gives dotted-path access to it. Numeric
// path segments index into arrays ("dynamics.0.name"). Values are kept in
// their decoded form: map[string]any, []any, string, bool, json.Number, nil.
type Document struct {
	root any
}

// New wraps a deep copy of root.
func New(root any) *Document {
	return &Document{root: DeepCopy(root)}
}

// Parse decodes text into a Document. Numbers are preserved verbatim and any
// trailing content after the first value is rejected.
func Parse(text string) (*Document, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SyntaxError{Message: "unexpected end of JSON input"}
		}
		return nil, wrapDecodeError(err)
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, wrapDecodeError(err)
		}
		return nil, &SyntaxError{
			Message: "invalid character after top-level value",
			Offset:  dec.InputOffset(),
		}
	}
	return &Document{root: root}, nil
}

// SyntaxError reports malformed JSON input.
type SyntaxError struct {
	Message string
	Offset  int64
}

func (e *SyntaxError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset)
	}
	return e.Message
}

func wrapDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &SyntaxError{Message: syntaxErr.Error(), Offset: syntaxErr.Offset}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &SyntaxError{Message: "unexpected end of JSON input"}
	}
	return &SyntaxError{Message: err.Error()}
}

// Root returns a deep copy of the wrapped value.
func (d *Document) Root() any {
	if d == nil {
		return nil
	}
	return DeepCopy(d.root)
}

// Clone returns an independent copy.
func (d *Document) Clone() *Document {
	return New(d.Root())
}

// IsObject reports whether the root is a JSON object.
func (d *Document) IsObject() bool {
	if d == nil {
		return false
	}
	_, ok := d.root.(map[string]any)
	return ok
}

// EnsureObject replaces a non-object root with an empty object and reports
// whether a replacement happened.
func (d *Document) EnsureObject() bool {
	if d.IsObject() {
		return false
	}
	d.root = make(map[string]any)
	return true
}

// Get resolves a dotted path. The returned value aliases the document; callers
// that mutate it must write it back through Set.
func (d *Document) Get(path string) (any, bool) {
	if d == nil || path == "" {
		return nil, false
	}
	current := d.root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value at path. Missing or null containers are created. A value of
// the wrong kind along the path (an array where a key is needed, a string
// where an index is needed) is left alone and Set fails with ErrShapeMismatch,
// keeping the document unchanged. The root is coerced to an object first.
func (d *Document) Set(path string, value any) error {
	if d == nil {
		return errors.New("document: document is nil")
	}
	if path == "" {
		return errors.New("document: path is required")
	}
	d.EnsureObject()
	updated, err := setPath(d.root, strings.Split(path, "."), value)
	if err != nil {
		return fmt.Errorf("document: set %q: %w", path, err)
	}
	d.root = updated
	return nil
}

func setPath(node any, segments []string, value any) (any, error) {
	segment := segments[0]
	rest := segments[1:]

	if idx, err := strconv.Atoi(segment); err == nil {
		if idx < 0 {
			return nil, fmt.Errorf("negative index %d", idx)
		}
		list, ok := node.([]any)
		if !ok {
			if m, isMap := node.(map[string]any); isMap {
				return setMapKey(m, segment, rest, value)
			}
			if node != nil {
				return nil, fmt.Errorf("%w: index %d on %s", ErrShapeMismatch, idx, kindOf(node))
			}
		}
		if len(list) <= idx {
			list = append(list, make([]any, idx+1-len(list))...)
		}
		if len(rest) == 0 {
			list[idx] = value
			return list, nil
		}
		child, err := setPath(list[idx], rest, value)
		if err != nil {
			return nil, err
		}
		list[idx] = child
		return list, nil
	}

	m, ok := node.(map[string]any)
	if !ok && node != nil {
		return nil, fmt.Errorf("%w: key %q on %s", ErrShapeMismatch, segment, kindOf(node))
	}
	if m == nil {
		m = make(map[string]any)
	}
	return setMapKey(m, segment, rest, value)
}

func kindOf(node any) string {
	switch node.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int:
		return "number"
	default:
		return fmt.Sprintf("%T", node)
	}
}

func setMapKey(m map[string]any, key string, rest []string, value any) (any, error) {
	if len(rest) == 0 {
		m[key] = value
		return m, nil
	}
	child, err := setPath(m[key], rest, value)
	if err != nil {
		return nil, err
	}
	m[key] = child
	return m, nil
}

// Encode renders the document as JSON indented with two spaces. HTML
// characters are not escaped.
func (d *Document) Encode() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	var root any
	if d != nil {
		root = d.root
	}
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("document: encode: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DeepCopy clones maps and slices of decoded JSON values.
func DeepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = DeepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = DeepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
