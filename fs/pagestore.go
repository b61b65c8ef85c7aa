package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/doclog"
)

// Ensure PageStore implements doclog.PageStore at compile time.
var _ doclog.PageStore = (*PageStore)(nil)

// PageStore implements doclog.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type PageStore struct {
	baseDir string
	name    string
}

// NewPageStore creates a new PageStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewPageStore(baseDir, name string) *PageStore {
	return &PageStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *PageStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *PageStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

func (s *PageStore) Save(ctx context.Context, page *doclog.Page) error {
	if page.Name == "" || filepath.Base(page.Name) != page.Name {
		return doclog.Errorf(doclog.EINVALID, "invalid page name %q", page.Name)
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.tempDir(), page.Name), []byte(page.Content), 0644)
}

func (s *PageStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *PageStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
