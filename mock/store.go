package mock

import (
	"context"

	"github.com/fwojciec/doclog"
)

var _ doclog.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of doclog.DocumentStore.
type DocumentStore struct {
	SaveFn          func(ctx context.Context, doc *doclog.Document) error
	FindDocumentsFn func(ctx context.Context, filter doclog.DocumentFilter) ([]*doclog.Document, error)
	CommitFn        func() error
	AbortFn         func() error
}

func (s *DocumentStore) Save(ctx context.Context, doc *doclog.Document) error {
	return s.SaveFn(ctx, doc)
}

func (s *DocumentStore) FindDocuments(ctx context.Context, filter doclog.DocumentFilter) ([]*doclog.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentStore) Commit() error {
	return s.CommitFn()
}

func (s *DocumentStore) Abort() error {
	return s.AbortFn()
}

var _ doclog.AuditIndex = (*AuditIndex)(nil)

// AuditIndex is a mock implementation of doclog.AuditIndex.
type AuditIndex struct {
	WriteAuditFn func(ctx context.Context, entries []*doclog.AuditEntry, docs []*doclog.Document) error
	CommitFn     func() error
	AbortFn      func() error
}

func (i *AuditIndex) WriteAudit(ctx context.Context, entries []*doclog.AuditEntry, docs []*doclog.Document) error {
	return i.WriteAuditFn(ctx, entries, docs)
}

func (i *AuditIndex) Commit() error {
	return i.CommitFn()
}

func (i *AuditIndex) Abort() error {
	return i.AbortFn()
}
