package tui

import (
	"context"
	"errors"

	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions. Render
// runs an interactive session starting from the snapshot document and returns
// the final export.
type Renderer struct {
	options []Option
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer. Options apply to every session it starts.
func New(options ...Option) (*Renderer, error) {
	return &Renderer{options: options}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the format of the bytes Render returns.
func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render edits a copy of the snapshot document interactively. The form
// argument is not used for layout; sessions build their menu from the
// snapshot variant so the two cannot disagree.
func (r *Renderer) Render(ctx context.Context, _ model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Snapshot.Variant.Name == "" {
		return nil, ErrNoVariant
	}

	ed := editor.Restore(opts.Snapshot.Variant, opts.Snapshot.Document)
	session, err := NewSession(ed, r.options...)
	if err != nil {
		return nil, err
	}
	session.State().SetImportText(opts.ImportFeedback)

	if err := session.Run(ctx); err != nil {
		return nil, err
	}
	return []byte(ed.Export()), nil
}
