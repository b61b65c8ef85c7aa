// Package goquery reads HTML produced and consumed by doclog.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doclog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure TextExtractor implements doclog.TextExtractor at compile time.
var _ doclog.TextExtractor = (*TextExtractor)(nil)

// TextExtractor returns the plain text of rendered HTML fragments.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Text parses s as the content of a <body> element and returns its text with
// surrounding whitespace trimmed.
func (e *TextExtractor) Text(s string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return "", doclog.Errorf(doclog.EINVALID, "failed to parse HTML: %v", err)
	}

	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(goquery.NewDocumentFromNode(n).Text())
	}
	return strings.TrimSpace(b.String()), nil
}
