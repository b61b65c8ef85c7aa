package doclog

import (
	"context"
	"fmt"
	"strings"
)

// AuditEntry is one line of the audit listing: a source record and what it
// resolved to.
type AuditEntry struct {
	Record *ClassifiedRecord

	// RevisionID is the published revision identifier, or empty when the
	// record was not assigned one.
	RevisionID string
}

// Label returns the revision identifier, or the record's class if it has none.
func (e *AuditEntry) Label() string {
	if e.RevisionID != "" {
		return e.RevisionID
	}
	return string(e.Record.Class)
}

// NewAuditEntries pairs records, in the given order, with their revision IDs.
func NewAuditEntries(recs []*ClassifiedRecord, a *Assignment) []*AuditEntry {
	entries := make([]*AuditEntry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, &AuditEntry{Record: r, RevisionID: a.RevisionIDs[r.Number]})
	}
	return entries
}

// FormatAuditList formats one line per entry:
// "<label>\tN<id> <date> <author>, <title>".
func FormatAuditList(entries []*AuditEntry) string {
	var b strings.Builder
	for _, e := range entries {
		r := e.Record
		fmt.Fprintf(&b, "%s\t%s %s %s, %s\n", e.Label(), r.ExtID(), r.Date, r.Author, r.Title)
	}
	return b.String()
}

// LinkPaths returns the record links below base, relative to base, in entry order.
func LinkPaths(entries []*AuditEntry, base string) []string {
	var paths []string
	for _, e := range entries {
		if strings.HasPrefix(e.Record.Link, base) {
			paths = append(paths, strings.TrimPrefix(e.Record.Link, base))
		}
	}
	return paths
}

// AuditIndex writes side indexes used to audit classification and links.
// WriteAudit stages the indexes; Commit makes them visible; Abort discards
// staged indexes. Abort after Commit, or without a write, is a no-op.
type AuditIndex interface {
	WriteAudit(ctx context.Context, entries []*AuditEntry, docs []*Document) error
	Commit() error
	Abort() error
}
