package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doclog"
)

const lastUpdatePrefix = "Last Update:"

// LastUpdate returns the "Last Update" stamp of the document log, such as
// "2024/06/01". Returns ENOTFOUND if the log has none.
func LastUpdate(s string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", doclog.Errorf(doclog.EINVALID, "failed to parse HTML: %v", err)
	}

	var stamp string
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if rest, ok := strings.CutPrefix(text, lastUpdatePrefix); ok {
			stamp = strings.TrimSpace(rest)
			return false
		}
		return true
	})
	if stamp == "" {
		return "", doclog.Errorf(doclog.ENOTFOUND, "document log has no %q heading", lastUpdatePrefix)
	}
	return stamp, nil
}
