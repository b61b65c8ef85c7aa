package doclog

import "context"

// Page is one rendered view of the published documents.
type Page struct {
	// Name is the file name relative to the output directory, e.g. "c-num.html".
	Name string

	// Title is plain text.
	Title string

	// Content is the complete file content.
	Content string

	// Updated is the latest revision date listed on the page, YYYY-MM-DD.
	// Empty when the page lists no revisions.
	Updated string
}

// PageStore persists pages to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}

// SitemapBuilder builds a sitemap page listing other pages.
type SitemapBuilder interface {
	Build(pages []*Page) (*Page, error)
}
