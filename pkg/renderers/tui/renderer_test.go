package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-projection-editor/pkg/clipboard"
	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/render"
	"github.com/goliatone/go-projection-editor/pkg/testsupport"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// stubDriver answers prompts from scripts. Select answers name the option by
// prefix so tests read like the menu a user sees.
type stubDriver struct {
	selects   []string
	multi     [][]string
	inputs    []string
	confirms  []bool
	textAreas []string

	infoMessages []string
	menus        [][]string
	textDefaults []string
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(s.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[0]
	s.confirms = s.confirms[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.menus = append(s.menus, cfg.Options)
	if len(s.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	want := s.selects[0]
	s.selects = s.selects[1:]
	for i, option := range cfg.Options {
		if strings.HasPrefix(option, want) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("option %q not offered in %q", want, cfg.Options)
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	if len(s.multi) == 0 {
		return nil, errors.New("no multiselect scripted")
	}
	want := s.multi[0]
	s.multi = s.multi[1:]
	return indicesOf(cfg.Options, want), nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.textDefaults = append(s.textDefaults, cfg.Default)
	if len(s.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[0]
	s.textAreas = s.textAreas[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newTestSession(t *testing.T, name string, driver *stubDriver, options ...Option) *Session {
	t.Helper()
	options = append([]Option{
		WithPromptDriver(driver),
		WithPreviewer(PlainPreview()),
		WithClipboard(&clipboard.Memory{}),
		WithOutput(io.Discard),
	}, options...)
	session, err := NewSession(editor.New(testsupport.MustVariant(t, name)), options...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func TestSession_MainMenu(t *testing.T) {
	driver := &stubDriver{selects: []string{MenuDone}}
	session := newTestSession(t, variant.NameShared, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		"Presentation: NONE",
		"Organization: NONE",
		"Authorities: (none)",
		"Actions: (none)",
		"Create execution log: no",
		"Action handlers: (none)",
		"Dynamics (1)",
		MenuImport,
		MenuCopy,
		MenuReset,
		MenuDone,
	}
	if diff := cmp.Diff(want, driver.menus[0]); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 || !strings.HasPrefix(driver.infoMessages[0], "Result:\n{") {
		t.Fatalf("expected initial preview, got %q", driver.infoMessages)
	}
}

func TestSession_ScalarMultiAndFlag(t *testing.T) {
	driver := &stubDriver{
		selects:  []string{"Presentation", "INBOX", "Authorities", "Create execution log", MenuDone},
		multi:    [][]string{{"ROLE_ADMIN", "ROLE_USER"}},
		confirms: []bool{true},
	}
	session := newTestSession(t, variant.NameShared, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	ed := session.Editor()
	if got := ed.Scalar(variant.FieldPresentation); got != "INBOX" {
		t.Fatalf("presentation = %q", got)
	}
	if diff := cmp.Diff([]string{"ROLE_USER", "ROLE_ADMIN"}, ed.Multi(variant.FieldAuthorities)); diff != "" {
		t.Fatalf("authorities mismatch (-want +got):\n%s", diff)
	}
	if !ed.Flag("createExecutionLog") {
		t.Fatalf("expected execution log flag to be set")
	}
	// initial preview plus one per change
	if len(driver.infoMessages) != 4 {
		t.Fatalf("expected 4 previews, got %d", len(driver.infoMessages))
	}
}

func TestSession_ClearScalarWithNone(t *testing.T) {
	driver := &stubDriver{selects: []string{"Organization", "OPERATOR", "Organization", "NONE", MenuDone}}
	session := newTestSession(t, variant.NamePerDynamic, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := session.Editor().Scalar(variant.FieldOrganization); got != "" {
		t.Fatalf("organization = %q, want empty", got)
	}
}

func TestSession_SharedHandlers(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			"Action handlers", MenuAddHandler, MenuAddHandler, MenuAddHandler, "Remove first", MenuBack,
			MenuDone,
		},
		inputs: []string{"  first  ", "   ", "second"},
	}
	session := newTestSession(t, variant.NameShared, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"second"}, session.Editor().Handlers(editor.SharedScope())); diff != "" {
		t.Fatalf("handlers mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_Dynamics(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			"Dynamics",
			MenuAddDynamic,
			"Dynamic #2",
			"View",
			"Action handlers",
			MenuAddHandler,
			MenuBack,
			MenuBack,
			MenuBack,
			MenuDone,
		},
		inputs: []string{"orders", "onSubmit"},
	}
	session := newTestSession(t, variant.NamePerDynamic, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []editor.Dynamic{
		{ActionHandlers: []string{}},
		{View: "orders", ActionHandlers: []string{"onSubmit"}},
	}
	if diff := cmp.Diff(want, session.Editor().Dynamics()); diff != "" {
		t.Fatalf("dynamics mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_RefusedEditKeepsImportedRecords(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			MenuImport,
			"Dynamics", MenuAddDynamic, MenuBack,
			"Action handlers", MenuAddHandler, MenuBack,
			MenuDone,
		},
		textAreas: []string{`{"dynamics":[{"name":"keep"}]}`},
		inputs:    []string{"extra"},
	}
	session := newTestSession(t, variant.NameShared, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(session.Editor().Export(), `"keep"`) {
		t.Fatalf("imported record lost:\n%s", session.Editor().Export())
	}
	refusals := 0
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, "nothing was changed") {
			refusals++
		}
	}
	if refusals != 2 {
		t.Fatalf("expected two refusal messages, got %q", driver.infoMessages)
	}
}

func TestSession_RemoveLastDynamicHiddenWhenEmpty(t *testing.T) {
	driver := &stubDriver{
		selects: []string{"Dynamics", MenuRemoveDynamic, MenuBack, MenuDone},
	}
	session := newTestSession(t, variant.NameShared, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if session.Editor().CanRemoveDynamic() {
		t.Fatalf("expected no dynamics left")
	}

	var dynamicsMenus [][]string
	for _, menu := range driver.menus {
		if len(menu) > 0 && (menu[0] == MenuAddDynamic || strings.HasPrefix(menu[0], "Dynamic #")) {
			dynamicsMenus = append(dynamicsMenus, menu)
		}
	}
	if len(dynamicsMenus) != 2 {
		t.Fatalf("expected two dynamics menus, got %q", dynamicsMenus)
	}
	if diff := cmp.Diff([]string{MenuAddDynamic, MenuBack}, dynamicsMenus[1]); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ImportFeedback(t *testing.T) {
	driver := &stubDriver{
		selects:   []string{MenuImport, MenuImport, MenuDone},
		textAreas: []string{`{"presentation":`, `{"presentation":"INBOX","dynamics":[],"extra":1.50}`},
	}
	session := newTestSession(t, variant.NamePerDynamic, driver)
	before := session.Editor().Export()

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(driver.textDefaults) != 2 {
		t.Fatalf("expected two import prompts, got %d", len(driver.textDefaults))
	}
	if driver.textDefaults[0] != "" {
		t.Fatalf("expected empty import buffer first, got %q", driver.textDefaults[0])
	}
	if driver.textDefaults[1] == "" || driver.textDefaults[1] == `{"presentation":` {
		t.Fatalf("expected parser message in import buffer, got %q", driver.textDefaults[1])
	}
	if got := session.State().ImportText(); got != "" {
		t.Fatalf("expected buffer cleared after successful import, got %q", got)
	}

	export := session.Editor().Export()
	if export == before || !strings.Contains(export, `"extra": 1.50`) {
		t.Fatalf("expected imported document verbatim, got:\n%s", export)
	}

	var warned bool
	for _, msg := range driver.infoMessages {
		if strings.HasPrefix(msg, DefaultTheme.WarningPrefix) {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected schema warnings after import, got %q", driver.infoMessages)
	}
}

func TestSession_CopyAndReset(t *testing.T) {
	board := &clipboard.Memory{}
	driver := &stubDriver{
		selects:  []string{"Presentation", "OUTBOX", MenuCopy, MenuReset, MenuDone},
		confirms: []bool{true},
	}
	session := newTestSession(t, variant.NameShared, driver, WithClipboard(board))

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(board.Text(), `"presentation": "OUTBOX"`) {
		t.Fatalf("expected copied export, got %q", board.Text())
	}
	if got := session.Editor().Scalar(variant.FieldPresentation); got != "" {
		t.Fatalf("expected reset document, presentation = %q", got)
	}
}

func TestSession_Aborted(t *testing.T) {
	driver := &stubDriver{}
	session := newTestSession(t, variant.NameShared, driver)
	if err := session.Run(context.Background()); err == nil {
		t.Fatalf("expected error when prompts fail")
	}
}

func TestRenderer_ReturnsExport(t *testing.T) {
	driver := &stubDriver{selects: []string{"Actions", MenuDone}, multi: [][]string{{"ACT_TAKE_NOTE"}}}
	r, err := New(WithPromptDriver(driver), WithPreviewer(PlainPreview()), WithOutput(io.Discard))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.Name() != "tui" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected renderer metadata %s %s", r.Name(), r.ContentType())
	}

	source := editor.New(testsupport.MustVariant(t, variant.NamePerDynamic))
	form := testsupport.MustBuildForm(t, variant.NamePerDynamic)
	out, err := r.Render(context.Background(), form, render.RenderOptions{Snapshot: source.Snapshot()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "\"actions\": [\n    \"ACT_TAKE_NOTE\"\n  ]") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if len(source.Multi(variant.FieldActions)) != 0 {
		t.Fatalf("render must not mutate the source editor")
	}
}

func TestRenderer_RequiresVariant(t *testing.T) {
	r, _ := New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Render(context.Background(), testsupport.MustBuildForm(t, variant.NameShared), render.RenderOptions{}); !errors.Is(err, ErrNoVariant) {
		t.Fatalf("expected ErrNoVariant, got %v", err)
	}
}

func TestState_IssueLines(t *testing.T) {
	state := NewState("")
	if lines := state.IssueLines(); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestPreviewers(t *testing.T) {
	export := "{\n  \"presentation\": \"INBOX\"\n}"

	plain, err := PlainPreview().Preview(export)
	if err != nil || plain != "Result:\n"+export {
		t.Fatalf("unexpected plain preview %q (%v)", plain, err)
	}

	previewer, err := GlamourPreview(0, "notty")
	if err != nil {
		t.Fatalf("glamour preview: %v", err)
	}
	out, err := previewer.Preview(export)
	if err != nil {
		t.Fatalf("render preview: %v", err)
	}
	if !strings.Contains(out, "Result") || !strings.Contains(out, `"presentation"`) {
		t.Fatalf("unexpected glamour preview:\n%s", out)
	}

	var buf strings.Builder
	if got, _ := AutoPreview(&buf).Preview("x"); got != "Result:\nx" {
		t.Fatalf("expected plain preview for non-terminal output, got %q", got)
	}
}
