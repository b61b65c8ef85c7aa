// Package goldmark renders Markdown views to HTML.
package goldmark

import (
	"bytes"

	"github.com/fwojciec/doclog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Ensure Renderer implements doclog.Renderer at compile time.
var _ doclog.Renderer = (*Renderer)(nil)

// Renderer converts CommonMark with pipe tables to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Render converts markdown to an HTML fragment.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
