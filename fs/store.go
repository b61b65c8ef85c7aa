// Package fs provides file-based storage for published metadata and rendered pages.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/doclog"
)

// MetadataFile is the name of the file holding a document's metadata.
const MetadataFile = "metadata.json"

// Ensure Store implements doclog.DocumentStore at compile time.
var _ doclog.DocumentStore = (*Store)(nil)

// Store implements doclog.DocumentStore with atomic update semantics.
// Documents are saved to a temporary directory, then moved atomically on Commit.
//
// Each document is written to <name>/<prefix>/<id>/metadata.json, where prefix
// is the identifier prefix of the document's class. Catalog editions get a
// metadata file of their own next to their document.
type Store struct {
	baseDir   string
	name      string
	reference *doclog.Reference

	// Logger receives a summary of changes on Commit. Nil discards it.
	Logger *slog.Logger
}

// NewStore creates a new Store.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewStore(baseDir, name string, ref *doclog.Reference) *Store {
	return &Store{
		baseDir:   baseDir,
		name:      name,
		reference: ref,
	}
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

func (s *Store) Save(ctx context.Context, doc *doclog.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	cfg := s.reference.Config(doc.Class)
	if cfg == nil {
		return doclog.Errorf(doclog.EINVALID, "document %s: class %s has no identifier prefix", doc.ID, doc.Class)
	}

	dir := filepath.Join(s.tempDir(), cfg.Prefix)
	if err := writeMetadata(filepath.Join(dir, doc.ID), doc); err != nil {
		return err
	}
	for _, ed := range doc.Editions {
		if err := writeMetadata(filepath.Join(dir, ed.ID), ed); err != nil {
			return err
		}
	}
	return nil
}

func writeMetadata(dir string, v any) error {
	data, err := MarshalMetadata(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, MetadataFile), data, 0644)
}

// MarshalMetadata encodes v as indented JSON with a trailing newline.
func MarshalMetadata(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FindDocuments reads committed documents matching the filter, ordered by
// class then identifier. Edition files are skipped; editions are returned
// nested in their document. A missing output directory yields no documents.
func (s *Store) FindDocuments(ctx context.Context, filter doclog.DocumentFilter) ([]*doclog.Document, error) {
	paths, err := filepath.Glob(filepath.Join(s.finalDir(), "*", "*", MetadataFile))
	if err != nil {
		return nil, err
	}

	var docs []*doclog.Document
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var doc doclog.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, doclog.Errorf(doclog.EINVALID, "%s: %v", path, err)
		}
		if doc.Class == "" {
			continue
		}
		if filter.ID != nil && doc.ID != *filter.ID {
			continue
		}
		if filter.Class != nil && doc.Class != *filter.Class {
			continue
		}
		docs = append(docs, &doc)
	}

	order := make(map[doclog.Class]int, len(doclog.Classes))
	for i, c := range doclog.Classes {
		order[c] = i
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Class != docs[j].Class {
			return order[docs[i].Class] < order[docs[j].Class]
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Changes summarizes the difference between pending and committed files.
type Changes struct {
	New       int
	Changed   int
	Unchanged int
	Removed   int
}

// Diff compares pending files against committed ones by content hash.
func (s *Store) Diff() (Changes, error) {
	var c Changes

	pending, err := hashTree(s.tempDir())
	if err != nil {
		return c, err
	}
	committed, err := hashTree(s.finalDir())
	if err != nil {
		return c, err
	}

	for path, h := range pending {
		old, ok := committed[path]
		switch {
		case !ok:
			c.New++
		case old != h:
			c.Changed++
		default:
			c.Unchanged++
		}
	}
	for path := range committed {
		if _, ok := pending[path]; !ok {
			c.Removed++
		}
	}
	return c, nil
}

// hashTree returns the xxhash of every file below root, keyed by relative path.
func hashTree(root string) (map[string]uint64, error) {
	hashes := make(map[string]uint64)
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		h := xxhash.New()
		if _, err := io.Copy(h, f); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hashes[rel] = h.Sum64()
		return nil
	})
	if errors.Is(err, iofs.ErrNotExist) {
		return hashes, nil
	}
	return hashes, err
}

func (s *Store) Commit() error {
	// Nothing saved: publish an empty directory.
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	changes, err := s.Diff()
	if err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return err
	}

	s.logger().Info("committed metadata",
		"dir", s.finalDir(),
		"new", changes.New,
		"changed", changes.Changed,
		"unchanged", changes.Unchanged,
		"removed", changes.Removed,
	)
	return nil
}

func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
