// Package logparse extracts records from the committee document log.
package logparse

import (
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/doclog"
)

var (
	headerRe  = regexp.MustCompile(`(?s)^.*?<h4 align=left>Last Update: .*?<hr>\s*<!--.*?-->\s*`)
	trailerRe = regexp.MustCompile(`(?s)<hr>.*`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->\s*`)
	breakRe   = regexp.MustCompile(`\s*<br>\s*`)

	noLinkRe = regexp.MustCompile(`(?s)^<span class="nolink">N([0-9]+)</span>\s+(.*)$`)
	linkRe   = regexp.MustCompile(`(?s)^<a href=([^>]*)>N([0-9]+)</a>\s+(.*)$`)

	anchorOpenRe = regexp.MustCompile(`<a href=[^>]*>`)
)

// notAssigned marks a document number that was reserved but never used.
const notAssigned = "Not assigned."

// titleFixes are literal repairs applied to raw titles, in order.
var titleFixes = []struct{ old, new string }{
	{"<b>", ""},
	{"</b>", ""},
	{"</a>", ""},
	// One stray unescaped >, one &.
	{" > ", " &gt; "},
	{" & ", " &amp; "},
	// Quotes written TeX-style, not meant as Markdown code.
	{"``", "&ldquo;"},
	{"''", "&rdquo;"},
	// <i> inside <code> has no Markdown equivalent.
	{"<code>UINT<i>N</i>_C</code>", "<code>UINT</code><i><code>N</code></i><code>_C</code>"},
}

// Ensure Extractor implements doclog.RecordExtractor at compile time.
var _ doclog.RecordExtractor = (*Extractor)(nil)

// Extractor parses the document log into records.
type Extractor struct {
	// Converter turns HTML titles into Markdown.
	Converter doclog.Converter

	// Reference supplies per-record corrections. May be nil.
	Reference *doclog.Reference

	// LogURL resolves relative links. Defaults to doclog.LogURL.
	LogURL string

	// DocPrefixes are the expected link prefixes. Defaults to doclog.DocPrefixes.
	DocPrefixes []string

	Logger *slog.Logger
}

// NewExtractor returns an Extractor for the WG14 document log.
func NewExtractor(conv doclog.Converter, ref *doclog.Reference, logger *slog.Logger) *Extractor {
	return &Extractor{
		Converter:   conv,
		Reference:   ref,
		LogURL:      doclog.LogURL,
		DocPrefixes: doclog.DocPrefixes,
		Logger:      logger,
	}
}

// Extract parses the log text and returns its records in log order.
// Returns EINVALID for a line that matches no layout or date grammar and
// ECONFLICT for a repeated document number.
func (e *Extractor) Extract(text string) ([]*doclog.Record, error) {
	base, err := url.Parse(e.logURL())
	if err != nil {
		return nil, doclog.Errorf(doclog.EINVALID, "invalid log URL: %v", err)
	}

	text = headerRe.ReplaceAllString(text, "")
	text = trailerRe.ReplaceAllString(text, "")
	text = commentRe.ReplaceAllString(text, "")

	var recs []*doclog.Record
	seen := make(map[int]bool)
	for _, line := range breakRe.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		rec, err := e.parseLine(base, line)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}

		if seen[rec.Number] {
			return nil, doclog.Errorf(doclog.ECONFLICT, "duplicate N%s", rec.ID)
		}
		seen[rec.Number] = true
		recs = append(recs, rec)
	}
	return recs, nil
}

// parseLine returns nil without error for unassigned numbers.
func (e *Extractor) parseLine(base *url.URL, line string) (*doclog.Record, error) {
	rec := &doclog.Record{}
	var rest string

	if m := noLinkRe.FindStringSubmatch(line); m != nil {
		rec.ID, rest = m[1], m[2]
	} else if m := linkRe.FindStringSubmatch(line); m != nil {
		rec.ID, rest = m[2], m[3]
		link, err := e.resolveLink(base, m[1])
		if err != nil {
			return nil, doclog.Errorf(doclog.EINVALID, "invalid link for N%s: %s", rec.ID, m[1])
		}
		rec.Link = link
		e.checkLink(rec)
	} else {
		return nil, doclog.Errorf(doclog.EINVALID, "could not parse line: %s", line)
	}

	n, err := strconv.Atoi(rec.ID)
	if err != nil || n <= 0 {
		return nil, doclog.Errorf(doclog.EINVALID, "invalid document number N%s: %s", rec.ID, line)
	}
	rec.Number = n

	if rest == notAssigned {
		return nil, nil
	}

	date, rest, err := ParseDate(rest)
	if err != nil {
		return nil, doclog.Errorf(doclog.EINVALID, "N%s: %s", rec.ID, doclog.ErrorMessage(err))
	}
	rec.Date = date

	rec.Author, rec.Title = splitAuthor(rest)
	if rec.Title, err = e.convertTitle(rec.Title); err != nil {
		return nil, doclog.Errorf(doclog.EINVALID, "N%s: convert title: %v", rec.ID, err)
	}

	e.applyCorrections(rec)
	if !validDate(rec.Date) {
		return nil, doclog.Errorf(doclog.EINVALID, "N%s: invalid date %s", rec.ID, rec.Date)
	}
	return rec, nil
}

func (e *Extractor) resolveLink(base *url.URL, href string) (string, error) {
	href = strings.Trim(href, `"`)
	href = strings.ReplaceAll(href, "http://www.open-std.org/", "https://www.open-std.org/")
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// checkLink warns about links that do not look like document links. This
// often hints at a stale entry in the log rather than a parse problem.
func (e *Extractor) checkLink(rec *doclog.Record) {
	for _, prefix := range e.docPrefixes() {
		if strings.HasPrefix(rec.Link, prefix+rec.ID+".") {
			return
		}
	}
	e.logger().Warn("unexpected URL", "record", rec.ExtID(), "url", rec.Link)
}

// splitAuthor splits "Author, Title." into its parts.
func splitAuthor(s string) (author, title string) {
	author, title, ok := strings.Cut(s, ",")
	if !ok {
		author, title = doclog.DefaultAuthor, s
	}
	author = strings.TrimSpace(author)
	title = strings.TrimRight(strings.TrimSpace(title), ".")

	// A title starting with a standard number is not an author.
	if strings.HasPrefix(author, "ISO/IEC ") {
		title = author + ", " + title
		author = doclog.DefaultAuthor
	}

	author = strings.ReplaceAll(author, "&amp;", "and")
	author = strings.ReplaceAll(author, "&", "and")
	return author, title
}

// convertTitle strips stray markup and converts the title to Markdown unless
// it already is Markdown, which is signalled by a backtick.
func (e *Extractor) convertTitle(title string) (string, error) {
	title = anchorOpenRe.ReplaceAllString(title, "")
	for _, fix := range titleFixes {
		title = strings.ReplaceAll(title, fix.old, fix.new)
	}
	if strings.Contains(title, "`") || strings.TrimSpace(title) == "" {
		return title, nil
	}
	md, err := e.Converter.Convert(title)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

func (e *Extractor) applyCorrections(rec *doclog.Record) {
	if e.Reference == nil {
		return
	}
	c, ok := e.Reference.Corrections[rec.Number]
	if !ok {
		return
	}
	if c.Date != "" {
		rec.Date = c.Date
	}
	if c.Author != "" {
		rec.Author = c.Author
	}
}

func (e *Extractor) logURL() string {
	if e.LogURL == "" {
		return doclog.LogURL
	}
	return e.LogURL
}

func (e *Extractor) docPrefixes() []string {
	if e.DocPrefixes == nil {
		return doclog.DocPrefixes
	}
	return e.DocPrefixes
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}
