package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/doclog"
	"github.com/fwojciec/doclog/etree"
	"github.com/fwojciec/doclog/fs"
	"github.com/fwojciec/doclog/goldmark"
	"github.com/fwojciec/doclog/goquery"
	"github.com/fwojciec/doclog/listing"
)

// Run executes the format command.
func (c *FormatCmd) Run(deps *Dependencies) (err error) {
	docs, err := fs.NewStore(c.Out, "papers", deps.Reference).FindDocuments(deps.Ctx, doclog.DocumentFilter{})
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(deps.Stderr, "Hint: Run 'doclog convert' first")
		return doclog.Errorf(doclog.ENOTFOUND, "no published documents in %s", c.Out)
	}

	builder := listing.NewBuilder(goldmark.NewRenderer(), goquery.NewTextExtractor(), deps.Reference)
	pages, err := builder.Pages(docs)
	if err != nil {
		return err
	}

	if c.SiteURL != "" {
		sitemap, err := etree.NewSitemap(c.SiteURL)
		if err != nil {
			return err
		}
		page, err := sitemap.Build(pages)
		if err != nil {
			return err
		}
		pages = append(pages, page)
	}

	store := fs.NewPageStore(filepath.Dir(c.HTML), filepath.Base(c.HTML))
	defer func() {
		if err != nil {
			_ = store.Abort()
		}
	}()
	for _, p := range pages {
		if err := store.Save(deps.Ctx, p); err != nil {
			return err
		}
	}
	if err := store.Commit(); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d pages to %s\n", len(pages), c.HTML)
	return nil
}
