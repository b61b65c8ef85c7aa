package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doclog"
)

// Ensure LoggingStore implements doclog.DocumentStore.
var _ doclog.DocumentStore = (*LoggingStore)(nil)

// LoggingStore wraps a DocumentStore with logging. Saves are logged at debug
// level, Commit and Abort at info level.
type LoggingStore struct {
	next   doclog.DocumentStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next doclog.DocumentStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

func (s *LoggingStore) Save(ctx context.Context, doc *doclog.Document) (err error) {
	defer func() {
		s.logger.Debug("save document",
			"id", doc.ID,
			"class", doc.Class,
			"revisions", len(doc.AllRevisions()),
			"err", err,
		)
	}()
	return s.next.Save(ctx, doc)
}

func (s *LoggingStore) FindDocuments(ctx context.Context, filter doclog.DocumentFilter) (docs []*doclog.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find documents",
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocuments(ctx, filter)
}

func (s *LoggingStore) Commit() (err error) {
	defer func(begin time.Time) {
		s.logger.Info("commit",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Commit()
}

func (s *LoggingStore) Abort() (err error) {
	defer func() {
		s.logger.Info("abort", "err", err)
	}()
	return s.next.Abort()
}
