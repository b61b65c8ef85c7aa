package mock

import "github.com/fwojciec/doclog"

var _ doclog.Converter = (*Converter)(nil)

// Converter is a mock implementation of doclog.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ doclog.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of doclog.Renderer.
type Renderer struct {
	RenderFn func(markdown string) (string, error)
}

func (r *Renderer) Render(markdown string) (string, error) {
	return r.RenderFn(markdown)
}

var _ doclog.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of doclog.TextExtractor.
type TextExtractor struct {
	TextFn func(html string) (string, error)
}

func (e *TextExtractor) Text(html string) (string, error) {
	return e.TextFn(html)
}
