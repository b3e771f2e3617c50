package tui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Previewer formats the export string shown after every change.
type Previewer interface {
	Preview(export string) (string, error)
}

// PreviewFunc adapts a function to Previewer.
type PreviewFunc func(export string) (string, error)

// Preview calls f.
func (f PreviewFunc) Preview(export string) (string, error) {
	return f(export)
}

// PlainPreview prints the export under a plain heading.
func PlainPreview() Previewer {
	return PreviewFunc(func(export string) (string, error) {
		return "Result:\n" + export, nil
	})
}

// GlamourPreview renders the export as a highlighted markdown code block,
// wrapped to width. A width of zero disables wrapping.
func GlamourPreview(width int, style string) (Previewer, error) {
	if style == "" {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return PreviewFunc(func(export string) (string, error) {
		var md strings.Builder
		md.WriteString("## Result\n\n```json\n")
		md.WriteString(export)
		md.WriteString("\n```\n")
		return renderer.Render(md.String())
	}), nil
}

// AutoPreview picks glamour when out is a terminal and plain text otherwise,
// for instance when stdout is piped into a file.
func AutoPreview(out io.Writer) Previewer {
	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return PlainPreview()
	}

	width := 0
	if w, _, err := term.GetSize(int(file.Fd())); err == nil {
		width = w
	}
	style := "light"
	if termenv.NewOutput(file).HasDarkBackground() {
		style = "dark"
	}

	previewer, err := GlamourPreview(width, style)
	if err != nil {
		return PlainPreview()
	}
	return previewer
}

// colorize paints prefix with the terminal's color profile. Plain outputs get
// the text unchanged.
func colorize(out io.Writer, text, color string) string {
	if text == "" || color == "" {
		return text
	}
	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return text
	}
	profile := termenv.NewOutput(file).ColorProfile()
	return termenv.String(text).Foreground(profile.Color(color)).String()
}
