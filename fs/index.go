package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/doclog"
)

// Audit file names.
const (
	PapersListFile = "papers-list.txt"
	FileListFile   = "file-list.txt"
)

// Ensure IndexWriter implements doclog.AuditIndex at compile time.
var _ doclog.AuditIndex = (*IndexWriter)(nil)

// IndexWriter writes the text audit listings to a directory. Listings are
// staged as "<name>.tmp" until Commit.
type IndexWriter struct {
	dir string
}

// NewIndexWriter creates a new IndexWriter that writes to dir.
func NewIndexWriter(dir string) *IndexWriter {
	return &IndexWriter{dir: dir}
}

func (w *IndexWriter) files() []string {
	return []string{
		filepath.Join(w.dir, PapersListFile),
		filepath.Join(w.dir, FileListFile),
	}
}

// WriteAudit stages the papers list (one line per record) and the file list
// (record links relative to the committee base URL).
func (w *IndexWriter) WriteAudit(ctx context.Context, entries []*doclog.AuditEntry, docs []*doclog.Document) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	var b strings.Builder
	for _, p := range doclog.LinkPaths(entries, doclog.BaseURL) {
		b.WriteString(p)
		b.WriteByte('\n')
	}

	files := w.files()
	contents := []string{doclog.FormatAuditList(entries), b.String()}
	for i, path := range files {
		if err := os.WriteFile(path+".tmp", []byte(contents[i]), 0644); err != nil {
			_ = w.Abort()
			return err
		}
	}
	return nil
}

// Commit renames the staged listings into place.
func (w *IndexWriter) Commit() error {
	for _, path := range w.files() {
		if err := os.Rename(path+".tmp", path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Abort removes the staged listings.
func (w *IndexWriter) Abort() error {
	var errs []error
	for _, path := range w.files() {
		if err := os.Remove(path + ".tmp"); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
