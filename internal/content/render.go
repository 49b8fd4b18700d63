package content

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts raw item bodies into HTML. It stands in for the source
// platform's content-filtering stage: Markdown bodies are rendered, bodies
// that are already HTML pass through untouched.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer. Inline HTML inside Markdown bodies is kept
// as-is (content comes from a trusted store, not user input).
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts a Markdown body to HTML.
func (r *Renderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
