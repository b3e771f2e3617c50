package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-projection-editor/pkg/clipboard"
	"github.com/goliatone/go-projection-editor/pkg/document"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// Editor owns one projection document and applies control-level edits to it.
// Readers tolerate documents of any shape since imports are accepted
// verbatim. An Editor is not safe for concurrent use.
type Editor struct {
	variant variant.Variant
	doc     *document.Document
}

// Dynamic is the typed view of one dynamic record.
type Dynamic struct {
	Name           string   `json:"name"`
	View           string   `json:"view"`
	Container      string   `json:"container"`
	ActionHandlers []string `json:"actionHandlers,omitempty"`
}

// Scope selects the action handler list an operation targets.
type Scope struct {
	shared bool
	index  int
}

// SharedScope targets the document-level handler list.
func SharedScope() Scope {
	return Scope{shared: true}
}

// DynamicScope targets the handler list of the dynamic at index.
func DynamicScope(index int) Scope {
	return Scope{index: index}
}

// Shared reports whether the scope targets the document-level list.
func (s Scope) Shared() bool { return s.shared }

// Index returns the dynamic index for per-dynamic scopes.
func (s Scope) Index() int { return s.index }

func (s Scope) String() string {
	if s.shared {
		return "shared"
	}
	return fmt.Sprintf("dynamic:%d", s.index)
}

// New creates an editor holding the variant's canonical default document.
func New(v variant.Variant) *Editor {
	e := &Editor{variant: v}
	e.Reset()
	return e
}

// Restore creates an editor around an existing document value.
func Restore(v variant.Variant, root any) *Editor {
	return &Editor{variant: v, doc: document.New(root)}
}

// Variant returns the schema variant the editor was built for.
func (e *Editor) Variant() variant.Variant {
	return e.variant
}

// Reset replaces the document with the canonical default.
func (e *Editor) Reset() {
	e.doc = document.New(e.variant.Default())
}

// Document returns a deep copy of the current document.
func (e *Editor) Document() any {
	return e.doc.Root()
}

// Scalar returns the value of a single-choice field, or "" when unset or not
// a string.
func (e *Editor) Scalar(field string) string {
	v, _ := e.doc.Get(field)
	return asString(v)
}

// SetScalar replaces a single-choice field with option, or clears it when
// option is empty.
func (e *Editor) SetScalar(field, option string) error {
	if !e.variant.IsScalar(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if option != "" && !e.variant.Contains(field, option) {
		return fmt.Errorf("%w: %s=%q", ErrUnknownOption, field, option)
	}
	return e.doc.Set(field, option)
}

// SetPresentation sets the workflow stage.
func (e *Editor) SetPresentation(option string) error {
	return e.SetScalar(variant.FieldPresentation, option)
}

// SetOrganization sets the organization role.
func (e *Editor) SetOrganization(option string) error {
	return e.SetScalar(variant.FieldOrganization, option)
}

// Multi returns the string entries of a multi-select field.
func (e *Editor) Multi(field string) []string {
	v, _ := e.doc.Get(field)
	return asStrings(v)
}

// SetMulti replaces a multi-select field with the selected options. Repeated
// options collapse to the first occurrence.
func (e *Editor) SetMulti(field string, options []string) error {
	if !e.variant.IsMulti(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	seen := make(map[string]struct{}, len(options))
	selected := make([]any, 0, len(options))
	for _, option := range options {
		if !e.variant.Contains(field, option) {
			return fmt.Errorf("%w: %s=%q", ErrUnknownOption, field, option)
		}
		if _, dup := seen[option]; dup {
			continue
		}
		seen[option] = struct{}{}
		selected = append(selected, option)
	}
	return e.doc.Set(field, selected)
}

// Toggle selects or deselects one option. The other selected options are
// kept; the result follows vocabulary order, as a rendered multi-select
// reports it.
func (e *Editor) Toggle(field, option string, selected bool) error {
	if !e.variant.IsMulti(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if !e.variant.Contains(field, option) {
		return fmt.Errorf("%w: %s=%q", ErrUnknownOption, field, option)
	}

	current := make(map[string]struct{})
	for _, value := range e.Multi(field) {
		current[value] = struct{}{}
	}
	if selected {
		current[option] = struct{}{}
	} else {
		delete(current, option)
	}

	vocab, _ := e.variant.Vocabulary(field)
	next := make([]string, 0, len(current))
	for _, candidate := range vocab {
		if _, ok := current[candidate]; ok {
			next = append(next, candidate)
		}
	}
	return e.SetMulti(field, next)
}

// Flag returns a declared boolean field; non-boolean values read as false.
func (e *Editor) Flag(name string) bool {
	v, _ := e.doc.Get(name)
	b, _ := v.(bool)
	return b
}

// SetFlag writes a declared boolean field.
func (e *Editor) SetFlag(name string, value bool) error {
	if _, ok := e.variant.Flag(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	return e.doc.Set(name, value)
}

// Dynamics returns the typed dynamic records. Entries that are not objects
// read as empty records.
func (e *Editor) Dynamics() []Dynamic {
	items := e.dynamicItems()
	out := make([]Dynamic, 0, len(items))
	for _, item := range items {
		record, _ := item.(map[string]any)
		out = append(out, Dynamic{
			Name:           asString(record[variant.DynamicName]),
			View:           asString(record[variant.DynamicView]),
			Container:      asString(record[variant.DynamicContainer]),
			ActionHandlers: asStrings(record[variant.DynamicActionHandlers]),
		})
	}
	return out
}

// DynamicCount returns the number of dynamic records.
func (e *Editor) DynamicCount() int {
	return len(e.dynamicItems())
}

// CanRemoveDynamic reports whether the remove-last control is available.
func (e *Editor) CanRemoveDynamic() bool {
	return e.DynamicCount() > 0
}

// AppendDynamic appends one default record. It fails with ErrShapeMismatch
// when the dynamics path holds something other than a list.
func (e *Editor) AppendDynamic() error {
	items, err := e.listAt(e.variant.DynamicsPath)
	if err != nil {
		return err
	}
	return e.doc.Set(e.variant.DynamicsPath, append(items, e.variant.DefaultDynamic()))
}

// RemoveLastDynamic drops the final record and reports whether one existed.
func (e *Editor) RemoveLastDynamic() (bool, error) {
	items := e.dynamicItems()
	if len(items) == 0 {
		return false, nil
	}
	if err := e.doc.Set(e.variant.DynamicsPath, items[:len(items)-1]); err != nil {
		return false, err
	}
	return true, nil
}

// SetDynamicField writes one text field of the record at index. Indices
// outside the list are ignored.
func (e *Editor) SetDynamicField(index int, field, value string) error {
	switch field {
	case variant.DynamicName, variant.DynamicView, variant.DynamicContainer:
	default:
		return fmt.Errorf("%w: dynamic %q", ErrUnknownField, field)
	}
	if index < 0 || index >= e.DynamicCount() {
		return nil
	}
	return e.doc.Set(e.dynamicPath(index, field), value)
}

// Handlers returns the action handler tags of scope.
func (e *Editor) Handlers(scope Scope) []string {
	path, ok, err := e.handlersPath(scope)
	if err != nil || !ok {
		return nil
	}
	v, _ := e.doc.Get(path)
	return asStrings(v)
}

// AppendHandler trims text and appends it to the scope's tag list when it is
// not empty. Duplicates are kept. It reports whether a tag was added.
func (e *Editor) AppendHandler(scope Scope, text string) (bool, error) {
	tag := strings.TrimSpace(text)
	path, ok, err := e.handlersPath(scope)
	if err != nil || !ok || tag == "" {
		return false, err
	}
	tags, err := e.listAt(path)
	if err != nil {
		return false, err
	}
	if err := e.doc.Set(path, append(tags, tag)); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveHandler removes the tag at index from the scope's list, shifting
// later tags down. Out-of-range indices are ignored. It reports whether a tag
// was removed.
func (e *Editor) RemoveHandler(scope Scope, index int) (bool, error) {
	path, ok, err := e.handlersPath(scope)
	if err != nil || !ok {
		return false, err
	}
	v, _ := e.doc.Get(path)
	tags := asList(v)
	if index < 0 || index >= len(tags) {
		return false, nil
	}
	next := make([]any, 0, len(tags)-1)
	next = append(next, tags[:index]...)
	next = append(next, tags[index+1:]...)
	if err := e.doc.Set(path, next); err != nil {
		return false, err
	}
	return true, nil
}

// Import replaces the whole document with the JSON value in text. Nothing is
// validated beyond JSON syntax. On failure the document is unchanged and the
// returned *ImportError carries the decoder message.
func (e *Editor) Import(text string) error {
	doc, err := document.Parse(text)
	if err != nil {
		return &ImportError{Message: err.Error(), Err: err}
	}
	e.doc = doc
	return nil
}

// Encode renders the document as JSON indented with two spaces. It only fails
// for documents built from non-JSON values through Restore.
func (e *Editor) Encode() (string, error) {
	out, err := e.doc.Encode()
	if err != nil {
		return "", fmt.Errorf("editor: %w", err)
	}
	return out, nil
}

// Export is Encode for display. An unencodable document exports as "".
func (e *Editor) Export() string {
	out, _ := e.Encode()
	return out
}

// Copy writes the export string to the clipboard.
func (e *Editor) Copy(ctx context.Context, w clipboard.Writer) error {
	if w == nil {
		return fmt.Errorf("editor: copy: clipboard writer is nil")
	}
	text, err := e.Encode()
	if err != nil {
		return fmt.Errorf("editor: copy: %w", err)
	}
	if err := w.Write(ctx, text); err != nil {
		return fmt.Errorf("editor: copy: %w", err)
	}
	return nil
}

// listAt returns a copy of the list at path. A missing or null value reads as
// an empty list; any other non-list value is a shape mismatch.
func (e *Editor) listAt(path string) ([]any, error) {
	v, _ := e.doc.Get(path)
	if v == nil {
		return nil, nil
	}
	if _, ok := v.([]any); !ok {
		return nil, fmt.Errorf("%w: %s holds %T", ErrShapeMismatch, path, v)
	}
	return asList(v), nil
}

func (e *Editor) dynamicItems() []any {
	v, _ := e.doc.Get(e.variant.DynamicsPath)
	return asList(v)
}

func (e *Editor) dynamicPath(index int, key string) string {
	return fmt.Sprintf("%s.%d.%s", e.variant.DynamicsPath, index, key)
}

// handlersPath resolves scope to a document path. ok is false for dynamic
// indices outside the list.
func (e *Editor) handlersPath(scope Scope) (string, bool, error) {
	if scope.shared {
		if !e.variant.SharedHandlers() {
			return "", false, ErrNoSharedHandlers
		}
		return e.variant.SharedHandlersPath, true, nil
	}
	if e.variant.SharedHandlers() {
		return "", false, ErrNoDynamicHandlers
	}
	if scope.index < 0 || scope.index >= e.DynamicCount() {
		return "", false, nil
	}
	return e.dynamicPath(scope.index, variant.DynamicActionHandlers), true, nil
}

func asString(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	// Positions are kept so indices line up with the underlying list.
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, asString(item))
	}
	return out
}

func asList(v any) []any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]any, len(list))
	copy(out, list)
	return out
}
