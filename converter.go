package doclog

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a log title, into Markdown.
	Convert(html string) (string, error)
}

// Renderer converts Markdown to HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}

// TextExtractor returns the text content of an HTML fragment with all markup removed.
type TextExtractor interface {
	Text(html string) (string, error)
}
