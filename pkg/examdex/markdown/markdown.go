// Package markdown converts document markdown to HTML and extracts plain
// text back out of rendered HTML for search.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown source to HTML
type Renderer interface {
	Render(src string) (string, error)
}

// Goldmark renders GitHub-flavored markdown with hard line breaks and
// typographic quotes.
type Goldmark struct {
	md goldmark.Markdown
}

// New creates the default renderer
func New() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithUnsafe(), // content is authored in-repo
			),
		),
	}
}

// Render implements Renderer. Blank input renders to the empty string.
func (g *Goldmark) Render(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Plain passes markdown through untouched. Useful in tests that assert on
// raw section text.
type Plain struct{}

// Render implements Renderer.
func (Plain) Render(src string) (string, error) {
	return strings.TrimSpace(src), nil
}
