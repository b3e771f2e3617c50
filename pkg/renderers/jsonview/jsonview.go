// Package jsonview renders the editor result: the document as JSON indented
// with two spaces, exactly as the copy button places it on the clipboard.
package jsonview

import (
	"context"

	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/render"
)

// Renderer emits the export string of the snapshot.
type Renderer struct {
	trailingNewline bool
}

// Option customises the renderer.
type Option func(*Renderer)

// WithTrailingNewline terminates the output with a newline, which suits
// terminals and files.
func WithTrailingNewline() Option {
	return func(r *Renderer) {
		r.trailingNewline = true
	}
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render ignores the form layout; the result is the document alone.
func (r *Renderer) Render(_ context.Context, _ model.FormModel, options render.RenderOptions) ([]byte, error) {
	out := []byte(options.Snapshot.Export)
	if r.trailingNewline {
		out = append(out, '\n')
	}
	return out, nil
}
