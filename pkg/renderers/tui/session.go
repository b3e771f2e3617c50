package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-projection-editor/pkg/clipboard"
	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/validation"
	"github.com/goliatone/go-projection-editor/pkg/variant"
	"github.com/goliatone/go-projection-editor/pkg/widgets"
)

// Main menu entries that follow the field entries.
const (
	MenuImport = "Import JSON"
	MenuCopy   = "Copy result"
	MenuReset  = "Reset"
	MenuDone   = "Done"
)

// Sub-menu entries.
const (
	MenuBack          = "Back"
	MenuAddHandler    = "Add handler"
	MenuAddDynamic    = "Add dynamic"
	MenuRemoveDynamic = "Delete last dynamic"
)

const noneLabel = "(none)"

// Session is a menu-driven editing loop over one editor. Every change prints
// the result again so the user always sees the current export.
type Session struct {
	cfg       config
	editor    *editor.Editor
	form      model.FormModel
	state     *State
	validator *validation.Validator
}

// NewSession prepares a session around ed.
func NewSession(ed *editor.Editor, options ...Option) (*Session, error) {
	if ed == nil {
		return nil, errors.New("tui: editor is nil")
	}
	cfg := newConfig(options)

	form, err := cfg.builder.Build(ed.Variant())
	if err != nil {
		return nil, fmt.Errorf("tui: build form: %w", err)
	}
	if err := widgets.NewRegistry().Decorate(&form); err != nil {
		return nil, fmt.Errorf("tui: decorate widgets: %w", err)
	}

	s := &Session{
		cfg:       cfg,
		editor:    ed,
		form:      form,
		state:     NewState(""),
		validator: validation.New(ed.Variant()),
	}
	s.revalidate()
	return s, nil
}

func newConfig(options []Option) config {
	cfg := config{theme: DefaultTheme, pageSize: 12}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.out == nil {
		cfg.out = os.Stdout
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(cfg.out)
	}
	if cfg.clipboard == nil {
		cfg.clipboard = clipboard.NewOSC52(nil)
	}
	if cfg.previewer == nil {
		cfg.previewer = AutoPreview(cfg.out)
	}
	if cfg.builder == nil {
		cfg.builder = model.NewBuilder()
	}
	return cfg
}

// Editor returns the edited editor.
func (s *Session) Editor() *editor.Editor {
	return s.editor
}

// State returns the session's import buffer and issues.
func (s *Session) State() *State {
	return s.state
}

// Run shows the result, then loops over the main menu until Done is chosen
// or a prompt fails.
func (s *Session) Run(ctx context.Context) error {
	if err := s.preview(ctx); err != nil {
		return err
	}
	for {
		done, err := s.step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Session) step(ctx context.Context) (bool, error) {
	options := make([]string, 0, len(s.form.Fields)+4)
	for _, field := range s.form.Fields {
		options = append(options, s.summary(field))
	}
	options = append(options, MenuImport, MenuCopy, MenuReset, MenuDone)

	title := s.form.Title
	if title == "" {
		title = s.form.Variant
	}
	idx, err := s.cfg.driver.Select(ctx, SelectConfig{
		Message:  title,
		Options:  options,
		PageSize: s.cfg.pageSize,
	})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(options) {
		return false, nil
	}
	if idx < len(s.form.Fields) {
		return false, s.editField(ctx, s.form.Fields[idx])
	}

	switch options[idx] {
	case MenuImport:
		return false, s.importDocument(ctx)
	case MenuCopy:
		return false, s.copyResult(ctx)
	case MenuReset:
		return false, s.reset(ctx)
	default:
		return true, nil
	}
}

func (s *Session) editField(ctx context.Context, field model.Field) error {
	var err error
	switch field.Widget() {
	case widgets.WidgetSelect:
		err = s.editScalar(ctx, field)
	case widgets.WidgetMultiSelect:
		err = s.editMulti(ctx, field)
	case widgets.WidgetCheckbox:
		err = s.editFlag(ctx, field)
	case widgets.WidgetTags:
		return s.editHandlers(ctx, field.Label, editor.SharedScope())
	case widgets.WidgetRepeater:
		return s.editDynamics(ctx, field)
	default:
		return fmt.Errorf("tui: field %q has unsupported widget %q", field.Name, field.Widget())
	}
	if err != nil {
		return err
	}
	return s.changed(ctx)
}

func (s *Session) editScalar(ctx context.Context, field model.Field) error {
	vocab := field.EnumStrings()
	current := s.editor.Scalar(field.Path)

	options := append([]string{field.Placeholder}, vocab...)
	defaultIndex := 0
	for i, option := range vocab {
		if option == current {
			defaultIndex = i + 1
		}
	}

	idx, err := s.cfg.driver.Select(ctx, SelectConfig{
		Message:      field.Label,
		Options:      options,
		DefaultIndex: defaultIndex,
		PageSize:     s.cfg.pageSize,
	})
	if err != nil {
		return err
	}
	value := ""
	if idx > 0 && idx < len(options) {
		value = options[idx]
	}
	return s.editor.SetScalar(field.Path, value)
}

func (s *Session) editMulti(ctx context.Context, field model.Field) error {
	vocab := field.EnumStrings()
	selected := make(map[string]struct{})
	for _, value := range s.editor.Multi(field.Path) {
		selected[value] = struct{}{}
	}
	var defaults []int
	for i, option := range vocab {
		if _, ok := selected[option]; ok {
			defaults = append(defaults, i)
		}
	}

	indices, err := s.cfg.driver.MultiSelect(ctx, SelectConfig{
		Message:  field.Label,
		Options:  vocab,
		Defaults: defaults,
		PageSize: s.cfg.pageSize,
	})
	if err != nil {
		return err
	}
	values := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(vocab) {
			values = append(values, vocab[idx])
		}
	}
	return s.editor.SetMulti(field.Path, values)
}

func (s *Session) editFlag(ctx context.Context, field model.Field) error {
	value, err := s.cfg.driver.Confirm(ctx, ConfirmConfig{
		Message: field.Label,
		Default: s.editor.Flag(field.Path),
	})
	if err != nil {
		return err
	}
	return s.editor.SetFlag(field.Path, value)
}

func (s *Session) editHandlers(ctx context.Context, label string, scope editor.Scope) error {
	for {
		tags := s.editor.Handlers(scope)
		options := make([]string, 0, len(tags)+2)
		options = append(options, MenuAddHandler)
		for _, tag := range tags {
			options = append(options, "Remove "+tag)
		}
		options = append(options, MenuBack)

		idx, err := s.cfg.driver.Select(ctx, SelectConfig{
			Message:  label,
			Options:  options,
			PageSize: s.cfg.pageSize,
		})
		if err != nil {
			return err
		}

		switch {
		case idx == 0:
			text, err := s.cfg.driver.Input(ctx, InputConfig{
				Message: "New handler",
				Help:    "Leading and trailing spaces are trimmed; empty input adds nothing.",
			})
			if err != nil {
				return err
			}
			added, err := s.editor.AppendHandler(scope, text)
			if err != nil {
				if err := s.refused(ctx, err); err != nil {
					return err
				}
				continue
			}
			if added {
				if err := s.changed(ctx); err != nil {
					return err
				}
			}
		case idx > 0 && idx <= len(tags):
			removed, err := s.editor.RemoveHandler(scope, idx-1)
			if err != nil {
				return err
			}
			if removed {
				if err := s.changed(ctx); err != nil {
					return err
				}
			}
		default:
			return nil
		}
	}
}

func (s *Session) editDynamics(ctx context.Context, field model.Field) error {
	label := field.Metadata[model.MetaRepeaterLabel]
	if label == "" {
		label = field.Label
	}

	for {
		dynamics := s.editor.Dynamics()
		options := make([]string, 0, len(dynamics)+3)
		for i, dynamic := range dynamics {
			entry := fmt.Sprintf("%s #%d", label, i+1)
			if dynamic.Name != "" {
				entry += " (" + dynamic.Name + ")"
			}
			options = append(options, entry)
		}
		options = append(options, MenuAddDynamic)
		if s.editor.CanRemoveDynamic() {
			options = append(options, MenuRemoveDynamic)
		}
		options = append(options, MenuBack)

		idx, err := s.cfg.driver.Select(ctx, SelectConfig{
			Message:  field.Label,
			Options:  options,
			PageSize: s.cfg.pageSize,
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(dynamics) {
			if err := s.editDynamic(ctx, field, label, idx); err != nil {
				return err
			}
			continue
		}
		if idx < 0 || idx >= len(options) {
			return nil
		}

		switch options[idx] {
		case MenuAddDynamic:
			if err := s.editor.AppendDynamic(); err != nil {
				if err := s.refused(ctx, err); err != nil {
					return err
				}
				continue
			}
		case MenuRemoveDynamic:
			if _, err := s.editor.RemoveLastDynamic(); err != nil {
				return err
			}
		default:
			return nil
		}
		if err := s.changed(ctx); err != nil {
			return err
		}
	}
}

func (s *Session) editDynamic(ctx context.Context, parent model.Field, label string, index int) error {
	var nested []model.Field
	if parent.Items != nil {
		nested = parent.Items.Nested
	}
	title := fmt.Sprintf("%s #%d", label, index+1)

	for {
		if index >= s.editor.DynamicCount() {
			return nil
		}
		dynamic := s.editor.Dynamics()[index]

		options := make([]string, 0, len(nested)+1)
		for _, child := range nested {
			switch child.Widget() {
			case widgets.WidgetTags:
				options = append(options, child.Label+": "+joinOrNone(dynamic.ActionHandlers))
			default:
				options = append(options, child.Label+": "+dynamicValue(dynamic, child.Name))
			}
		}
		options = append(options, MenuBack)

		idx, err := s.cfg.driver.Select(ctx, SelectConfig{
			Message:  title,
			Options:  options,
			PageSize: s.cfg.pageSize,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(nested) {
			return nil
		}

		child := nested[idx]
		if child.Widget() == widgets.WidgetTags {
			if err := s.editHandlers(ctx, title+" "+child.Label, editor.DynamicScope(index)); err != nil {
				return err
			}
			continue
		}

		value, err := s.cfg.driver.Input(ctx, InputConfig{
			Message: title + " " + child.Label,
			Default: dynamicValue(dynamic, child.Name),
		})
		if err != nil {
			return err
		}
		if err := s.editor.SetDynamicField(index, child.Name, value); err != nil {
			if err := s.refused(ctx, err); err != nil {
				return err
			}
			continue
		}
		if err := s.changed(ctx); err != nil {
			return err
		}
	}
}

// importDocument offers the import buffer for editing. A failed import keeps
// the document and replaces the buffer with the parser message; a successful
// one clears it.
func (s *Session) importDocument(ctx context.Context) error {
	text, err := s.cfg.driver.TextArea(ctx, TextAreaConfig{
		Message: "Initial value",
		Default: s.state.ImportText(),
		Help:    "Paste a JSON document. It replaces the current one as is.",
	})
	if err != nil {
		return err
	}

	importErr := s.editor.Import(text)
	s.state.SetImportText(editor.Feedback(importErr))
	if importErr != nil {
		return s.message(ctx, s.cfg.theme.ErrorPrefix+editor.Feedback(importErr), s.cfg.theme.ErrorColor)
	}

	s.revalidate()
	for _, line := range s.state.IssueLines() {
		if err := s.message(ctx, s.cfg.theme.WarningPrefix+line, s.cfg.theme.WarningColor); err != nil {
			return err
		}
	}
	return s.preview(ctx)
}

// refused shows an edit the document shape does not allow and keeps the
// session going; other errors end it.
func (s *Session) refused(ctx context.Context, err error) error {
	if !errors.Is(err, editor.ErrShapeMismatch) {
		return err
	}
	return s.message(ctx, s.cfg.theme.ErrorPrefix+"The imported document has another layout here; nothing was changed.", s.cfg.theme.ErrorColor)
}

func (s *Session) copyResult(ctx context.Context) error {
	if err := s.editor.Copy(ctx, s.cfg.clipboard); err != nil {
		return s.message(ctx, s.cfg.theme.ErrorPrefix+err.Error(), s.cfg.theme.ErrorColor)
	}
	return s.message(ctx, s.cfg.theme.InfoPrefix+"Copied to clipboard", "")
}

func (s *Session) reset(ctx context.Context) error {
	ok, err := s.cfg.driver.Confirm(ctx, ConfirmConfig{
		Message: "Replace the document with the default?",
	})
	if err != nil || !ok {
		return err
	}
	s.editor.Reset()
	return s.changed(ctx)
}

func (s *Session) changed(ctx context.Context) error {
	s.revalidate()
	return s.preview(ctx)
}

func (s *Session) revalidate() {
	s.state.SetIssues(s.validator.Validate(s.editor.Document()).Issues)
}

func (s *Session) preview(ctx context.Context) error {
	text, err := s.cfg.previewer.Preview(s.editor.Export())
	if err != nil {
		return fmt.Errorf("tui: preview: %w", err)
	}
	return s.cfg.driver.Info(ctx, text)
}

func (s *Session) message(ctx context.Context, text, color string) error {
	return s.cfg.driver.Info(ctx, colorize(s.cfg.out, text, color))
}

// summary is the main menu entry of a field: its label and current value,
// marked when the document has issues at that path.
func (s *Session) summary(field model.Field) string {
	var value string
	switch field.Widget() {
	case widgets.WidgetSelect:
		value = s.editor.Scalar(field.Path)
		if value == "" {
			value = field.Placeholder
		}
	case widgets.WidgetMultiSelect:
		value = joinOrNone(s.editor.Multi(field.Path))
	case widgets.WidgetCheckbox:
		value = "no"
		if s.editor.Flag(field.Path) {
			value = "yes"
		}
	case widgets.WidgetTags:
		value = joinOrNone(s.editor.Handlers(editor.SharedScope()))
	case widgets.WidgetRepeater:
		return fmt.Sprintf("%s (%d)%s", field.Label, s.editor.DynamicCount(), s.issueMarker(field.Path))
	}
	return field.Label + ": " + value + s.issueMarker(field.Path)
}

func (s *Session) issueMarker(path string) string {
	if len(s.state.IssuesFor(path)) > 0 {
		return " [!]"
	}
	return ""
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return noneLabel
	}
	return strings.Join(values, ", ")
}

func dynamicValue(dynamic editor.Dynamic, name string) string {
	switch name {
	case variant.DynamicName:
		return dynamic.Name
	case variant.DynamicView:
		return dynamic.View
	case variant.DynamicContainer:
		return dynamic.Container
	default:
		return ""
	}
}
