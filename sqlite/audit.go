package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/doclog"
)

// Compile-time interface verification.
var _ doclog.AuditIndex = (*AuditIndex)(nil)

// AuditIndex implements doclog.AuditIndex using SQLite. Each write replaces
// the previous contents of the database inside a transaction that stays open
// until Commit or Abort.
type AuditIndex struct {
	db *DB
	tx *sql.Tx
}

// NewAuditIndex creates a new AuditIndex.
func NewAuditIndex(db *DB) *AuditIndex {
	return &AuditIndex{db: db}
}

// WriteAudit stores every record with the revision it was published under,
// and every document, edition and revision, in a single transaction.
func (s *AuditIndex) WriteAudit(ctx context.Context, entries []*doclog.AuditEntry, docs []*doclog.Document) (err error) {
	if err := s.Abort(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"revisions", "documents", "records"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, e := range entries {
		r := e.Record
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (number, ext_id, date, author, title, link, class, revision_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.Number, r.ExtID(), r.Date, r.Author, r.Title, r.Link, string(r.Class), e.RevisionID); err != nil {
			return fmt.Errorf("failed to insert %s: %w", r.ExtID(), err)
		}
	}

	for _, d := range docs {
		if err := insertDocument(ctx, tx, d.ID, nil, d.Class, d.Author, d.Title, d.Accompanies); err != nil {
			return err
		}
		if err := insertRevisions(ctx, tx, d.Revisions); err != nil {
			return err
		}
		for _, ed := range d.Editions {
			if err := insertDocument(ctx, tx, ed.ID, &d.ID, d.Class, ed.Author, ed.Title, ""); err != nil {
				return err
			}
			if err := insertRevisions(ctx, tx, ed.Revisions); err != nil {
				return err
			}
		}
	}

	s.tx = tx
	return nil
}

// Commit commits the pending write.
func (s *AuditIndex) Commit() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return tx.Commit()
}

// Abort rolls back the pending write.
func (s *AuditIndex) Abort() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return tx.Rollback()
}

func insertDocument(ctx context.Context, tx *sql.Tx, id string, parentID *string, class doclog.Class, author, title, accompanies string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, parent_id, class, author, title, accompanies)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, parentID, string(class), author, title, accompanies)
	if err != nil {
		return fmt.Errorf("failed to insert document %s: %w", id, err)
	}
	return nil
}

func insertRevisions(ctx context.Context, tx *sql.Tx, revs []*doclog.Revision) error {
	for _, r := range revs {
		num, err := strconv.Atoi(strings.TrimPrefix(r.ExtID, "N"))
		if err != nil {
			return doclog.Errorf(doclog.EINTERNAL, "revision %s has malformed ext-id %q", r.ID, r.ExtID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO revisions (id, document_id, rev_id, record_number, date, author, title, ext_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.DocID, r.RevID, num, r.Date, r.Author, r.Title, r.ExtURL); err != nil {
			return fmt.Errorf("failed to insert revision %s: %w", r.ID, err)
		}
	}
	return nil
}
