// Package listing renders the published documents as HTML lists: per class,
// one table by document number and one reverse-chronological table of all
// revisions, plus an index page linking them.
package listing

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/fwojciec/doclog"
)

// IndexName is the file name of the index page.
const IndexName = "index.html"

// classLabels name each class in page headings.
var classLabels = map[doclog.Class]string{
	doclog.ClassDocument:      "C documents",
	doclog.ClassAdmin:         "Administrative documents",
	doclog.ClassPublication:   "Publications",
	doclog.ClassAgenda:        "Meeting agendas",
	doclog.ClassMinutes:       "Meeting minutes",
	doclog.ClassFPTeleAgenda:  "Floating-point teleconference agendas",
	doclog.ClassFPTeleMinutes: "Floating-point teleconference minutes",
	doclog.ClassMeeting:       "Meeting documents",
}

const tableHeader = "|Number|Revision|Author|Date|Title|\n|-|-|-|-|-|\n"

// Builder renders document lists.
type Builder struct {
	Renderer      doclog.Renderer
	TextExtractor doclog.TextExtractor
	Reference     *doclog.Reference
}

// NewBuilder creates a new Builder.
func NewBuilder(r doclog.Renderer, t doclog.TextExtractor, ref *doclog.Reference) *Builder {
	return &Builder{Renderer: r, TextExtractor: t, Reference: ref}
}

// Pages returns the index page followed by the two lists of every class
// that has documents.
func (b *Builder) Pages(docs []*doclog.Document) ([]*doclog.Page, error) {
	byClass := make(map[doclog.Class][]*doclog.Document)
	for _, d := range docs {
		byClass[d.Class] = append(byClass[d.Class], d)
	}

	var index strings.Builder
	index.WriteString("# Document lists\n\n")

	var pages []*doclog.Page
	var updated string
	for _, c := range doclog.Classes {
		classDocs := byClass[c]
		if len(classDocs) == 0 {
			continue
		}
		label := classLabels[c]
		base := b.pageBase(c)

		num, err := b.page(base+"-num.html", label+" by document number", byNumber(classDocs), classDocs)
		if err != nil {
			return nil, err
		}
		all, err := b.page(base+"-all.html", label+", reverse-chronological", reverseChronological(classDocs), classDocs)
		if err != nil {
			return nil, err
		}
		pages = append(pages, num, all)
		updated = max(updated, num.Updated)

		fmt.Fprintf(&index, "* [All revisions of %s, reverse-chronological](%s)\n", label, all.Name)
		fmt.Fprintf(&index, "* [%s in reverse order by document number](%s)\n", label, num.Name)
	}

	page, err := b.render(IndexName, "Document lists", index.String())
	if err != nil {
		return nil, err
	}
	page.Updated = updated
	return append([]*doclog.Page{page}, pages...), nil
}

// pageBase returns the file name stem for class c: its lowercased prefix.
func (b *Builder) pageBase(c doclog.Class) string {
	if cfg := b.Reference.Config(c); cfg != nil {
		return strings.ToLower(cfg.Prefix)
	}
	return string(c)
}

func (b *Builder) page(name, title, table string, docs []*doclog.Document) (*doclog.Page, error) {
	page, err := b.render(name, title, "# "+title+"\n\n"+tableHeader+table)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		for _, r := range d.AllRevisions() {
			page.Updated = max(page.Updated, r.Date)
		}
	}
	return page, nil
}

// render converts a Markdown body into a complete HTML page.
func (b *Builder) render(name, title, markdown string) (*doclog.Page, error) {
	body, err := b.Renderer.Render(markdown)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	titleHTML, err := b.Renderer.Render(title)
	if err != nil {
		return nil, fmt.Errorf("rendering %s title: %w", name, err)
	}
	plain, err := b.TextExtractor.Text(titleHTML)
	if err != nil {
		return nil, fmt.Errorf("extracting %s title: %w", name, err)
	}

	content := "<!DOCTYPE html>\n" +
		"<html lang=\"en\">\n" +
		"<head>\n" +
		"<meta http-equiv=\"Content-Type\" content=\"text/html; charset=UTF-8\">\n" +
		"<title>" + html.EscapeString(plain) + "</title>\n" +
		"</head>\n" +
		"<body>\n" +
		strings.TrimRight(body, "\n") + "\n" +
		"</body>\n" +
		"</html>\n"
	return &doclog.Page{Name: name, Title: plain, Content: content}, nil
}

// byNumber lists documents in descending identifier order, each followed by
// its revisions, newest first. Catalog editions follow their document.
func byNumber(docs []*doclog.Document) string {
	sorted := append([]*doclog.Document(nil), docs...)
	sort.Slice(sorted, func(i, j int) bool {
		return compareIDs(sorted[i].ID, sorted[j].ID) > 0
	})

	var b strings.Builder
	for _, d := range sorted {
		fmt.Fprintf(&b, "|%s| |%s| |%s|\n", d.ID, cell(d.Author), cell(d.Title))
		writeRevisions(&b, d.Revisions)
		for i := len(d.Editions) - 1; i >= 0; i-- {
			ed := d.Editions[i]
			fmt.Fprintf(&b, "|%s| |%s| |%s|\n", ed.ID, cell(ed.Author), cell(ed.Name))
			writeRevisions(&b, ed.Revisions)
		}
	}
	return b.String()
}

func writeRevisions(b *strings.Builder, revs []*doclog.Revision) {
	for i := len(revs) - 1; i >= 0; i-- {
		b.WriteString(revisionLine(revs[i], false))
	}
}

// reverseChronological lists every revision by descending date, then
// descending identifier.
func reverseChronological(docs []*doclog.Document) string {
	var revs []*doclog.Revision
	for _, d := range docs {
		revs = append(revs, d.AllRevisions()...)
	}
	sort.Slice(revs, func(i, j int) bool {
		if revs[i].Date != revs[j].Date {
			return revs[i].Date > revs[j].Date
		}
		return compareIDs(revs[i].ID, revs[j].ID) > 0
	})

	var b strings.Builder
	for _, r := range revs {
		b.WriteString(revisionLine(r, true))
	}
	return b.String()
}

func revisionLine(r *doclog.Revision, showDoc bool) string {
	link := fmt.Sprintf("%s (%s)", r.RevID, r.ExtID)
	if r.ExtURL != nil {
		link = fmt.Sprintf("[%s](%s)", link, *r.ExtURL)
	}
	n := " "
	if showDoc {
		n = r.DocID
	}
	return fmt.Sprintf("|%s|%s|%s|%s|%s|\n", n, link, cell(r.Author), r.Date, cell(r.Title))
}

// cell escapes s for use in a table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
