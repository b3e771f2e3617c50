package render

import (
	"context"

	"github.com/goliatone/go-projection-editor/pkg/model"
)

// Renderer converts a FormModel plus the current editor state into bytes
// (HTML, JSON, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
