// Package htmltomarkdown converts document log titles from HTML to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/fwojciec/doclog"
)

// Ensure Converter implements doclog.Converter at compile time.
var _ doclog.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML fragments to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
// Emphasis is written with underscores and strong emphasis with asterisks.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithEmDelimiter("_"),
				commonmark.WithStrongDelimiter("**"),
			),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an HTML fragment into Markdown. Characters with a
// meaning in Markdown are escaped.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", doclog.Errorf(doclog.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}
