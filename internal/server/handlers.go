package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/render"
	"github.com/goliatone/go-projection-editor/pkg/renderers/vanilla"
	"github.com/goliatone/go-projection-editor/pkg/validation"
)

// errBadRequest marks malformed form values.
var errBadRequest = errors.New("server: bad request")

type applyFunc func(r *http.Request, ed *editor.Editor) error

// handlePage renders the editor. A ?variant= query starts the session over
// with that variant's defaults and redirects to the clean URL.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if name := r.URL.Query().Get("variant"); name != "" {
		if !s.variants.Has(name) {
			http.Error(w, fmt.Sprintf("unknown variant %q", name), http.StatusBadRequest)
			return
		}
		if _, err := s.sessions.Start(r.Context(), id, name); err != nil {
			s.fail(w, r, err)
			return
		}
		s.metrics.Operation("start", name)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var page []byte
	err := s.sessions.WithSession(r.Context(), id, func(ctx context.Context, ed *editor.Editor) error {
		var err error
		page, err = s.renderPage(ctx, ed, "")
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, s.page.ContentType(), http.StatusOK, page)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var out []byte
	err := s.sessions.WithSession(r.Context(), sessionID(r), func(ctx context.Context, ed *editor.Editor) error {
		var err error
		form, err := s.builder.Build(ed.Variant())
		if err != nil {
			return fmt.Errorf("server: build form: %w", err)
		}
		out, err = s.export.Render(ctx, form, render.RenderOptions{Snapshot: ed.Snapshot()})
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.URL.Query().Has("download") {
		w.Header().Set("Content-Disposition", `attachment; filename="projection.json"`)
	}
	s.write(w, s.export.ContentType(), http.StatusOK, out)
}

// handleImport replaces the document. A malformed import leaves the document
// alone and shows the decoder message in place of the submitted text.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	var (
		page      []byte
		variantID string
	)
	err := s.sessions.WithSession(r.Context(), sessionID(r), func(ctx context.Context, ed *editor.Editor) error {
		variantID = ed.Variant().Name
		importErr := ed.Import(r.PostForm.Get("text"))
		if importErr == nil {
			return nil
		}
		var err error
		page, err = s.renderPage(ctx, ed, editor.Feedback(importErr))
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if page != nil {
		s.metrics.ImportFailure(variantID)
		s.write(w, s.page.ContentType(), http.StatusUnprocessableEntity, page)
		return
	}
	s.metrics.Operation("import", variantID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// mutate applies one editor operation and redirects to the page.
func (s *Server) mutate(operation string, apply applyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		var variantID string
		err := s.sessions.WithSession(r.Context(), sessionID(r), func(_ context.Context, ed *editor.Editor) error {
			variantID = ed.Variant().Name
			return apply(r, ed)
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.metrics.Operation(operation, variantID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) renderPage(ctx context.Context, ed *editor.Editor, feedback string) ([]byte, error) {
	form, err := s.builder.Build(ed.Variant())
	if err != nil {
		return nil, fmt.Errorf("server: build form: %w", err)
	}
	result := validation.Validate(ed.Variant(), ed.Document())
	return s.page.Render(ctx, form, render.RenderOptions{
		Snapshot:       ed.Snapshot(),
		ImportFeedback: feedback,
		Issues:         result.Issues,
		Theme:          s.theme,
		Variants:       s.variants.List(),
	})
}

func (s *Server) write(w http.ResponseWriter, contentType string, status int, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// fail maps editor misuse and malformed forms to 400 and logs everything
// else as a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrUnknownOption),
		errors.Is(err, editor.ErrUnknownFlag),
		errors.Is(err, editor.ErrNoSharedHandlers),
		errors.Is(err, editor.ErrNoDynamicHandlers):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, editor.ErrShapeMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func applyReset(_ *http.Request, ed *editor.Editor) error {
	ed.Reset()
	return nil
}

// applyField sets a single or multiple choice field named by the path.
func applyField(r *http.Request, ed *editor.Editor) error {
	field := chi.URLParam(r, "field")
	v := ed.Variant()
	switch {
	case v.IsScalar(field):
		return ed.SetScalar(field, r.PostForm.Get("value"))
	case v.IsMulti(field):
		return ed.SetMulti(field, r.PostForm["value"])
	default:
		return fmt.Errorf("%w: %q", editor.ErrUnknownField, field)
	}
}

// applyFlag reads the last "value" entry; the checkbox form sends a hidden
// false ahead of the checkbox itself.
func applyFlag(r *http.Request, ed *editor.Editor) error {
	values := r.PostForm["value"]
	checked := false
	if len(values) > 0 {
		parsed, err := strconv.ParseBool(values[len(values)-1])
		if err != nil {
			return fmt.Errorf("%w: flag value %q", errBadRequest, values[len(values)-1])
		}
		checked = parsed
	}
	return ed.SetFlag(chi.URLParam(r, "name"), checked)
}

func applyAppendHandler(r *http.Request, ed *editor.Editor) error {
	scope, err := parseScope(r.PostForm.Get("scope"))
	if err != nil {
		return err
	}
	_, err = ed.AppendHandler(scope, r.PostForm.Get("text"))
	return err
}

func applyRemoveHandler(r *http.Request, ed *editor.Editor) error {
	scope, err := parseScope(r.PostForm.Get("scope"))
	if err != nil {
		return err
	}
	index, err := parseIndex(r.PostForm.Get("index"))
	if err != nil {
		return err
	}
	_, err = ed.RemoveHandler(scope, index)
	return err
}

func applyAppendDynamic(_ *http.Request, ed *editor.Editor) error {
	return ed.AppendDynamic()
}

func applyRemoveLastDynamic(_ *http.Request, ed *editor.Editor) error {
	_, err := ed.RemoveLastDynamic()
	return err
}

func applyDynamicField(r *http.Request, ed *editor.Editor) error {
	index, err := parseIndex(chi.URLParam(r, "index"))
	if err != nil {
		return err
	}
	return ed.SetDynamicField(index, r.PostForm.Get("field"), r.PostForm.Get("value"))
}

func parseScope(raw string) (editor.Scope, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == vanilla.ScopeShared {
		return editor.SharedScope(), nil
	}
	index, err := parseIndex(raw)
	if err != nil {
		return editor.Scope{}, err
	}
	return editor.DynamicScope(index), nil
}

func parseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", errBadRequest, raw)
	}
	return index, nil
}
