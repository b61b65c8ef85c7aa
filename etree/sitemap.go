// Package etree writes XML sitemaps for the rendered document lists.
package etree

import (
	"net/url"

	"github.com/beevik/etree"
	"github.com/fwojciec/doclog"
)

// SitemapName is the file name of the sitemap page.
const SitemapName = "sitemap.xml"

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Ensure Sitemap implements doclog.SitemapBuilder.
var _ doclog.SitemapBuilder = (*Sitemap)(nil)

// Sitemap builds a <urlset> sitemap of pages published below a site URL.
type Sitemap struct {
	siteURL *url.URL
}

// NewSitemap creates a new Sitemap. siteURL is the absolute URL of the
// directory the pages are published in.
func NewSitemap(siteURL string) (*Sitemap, error) {
	u, err := url.Parse(siteURL)
	if err != nil || !u.IsAbs() {
		return nil, doclog.Errorf(doclog.EINVALID, "site URL %q must be absolute", siteURL)
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	return &Sitemap{siteURL: u}, nil
}

// Build returns the sitemap page. Pages are listed in the given order with
// their Updated date as <lastmod>.
func (s *Sitemap) Build(pages []*doclog.Page) (*doclog.Page, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapNamespace)

	for _, p := range pages {
		loc := s.siteURL.ResolveReference(&url.URL{Path: p.Name})
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(loc.String())
		if p.Updated != "" {
			u.CreateElement("lastmod").SetText(p.Updated)
		}
	}

	doc.Indent(2)
	content, err := doc.WriteToString()
	if err != nil {
		return nil, err
	}
	return &doclog.Page{Name: SitemapName, Content: content}, nil
}
