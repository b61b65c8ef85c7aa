package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/fwojciec/doclog"
	"github.com/fwojciec/doclog/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func auditFixture() ([]*doclog.AuditEntry, []*doclog.Document) {
	link := doclog.BaseURL + "www/docs/n3100.pdf"
	recs := []*doclog.ClassifiedRecord{
		{Record: doclog.Record{Number: 3100, ID: "3100", Date: "2023-05-01", Author: "Alice", Title: "Typeof", Link: link}, Class: doclog.ClassDocument},
		{Record: doclog.Record{Number: 3096, ID: "3096", Date: "2023-04-01", Author: "WG14", Title: "Working draft"}, Class: doclog.ClassPublication},
		{Record: doclog.Record{Number: 3101, ID: "3101", Date: "2023-05-02", Author: "WG14", Title: "Agenda"}, Class: doclog.ClassAgenda},
	}
	docs := []*doclog.Document{
		{
			ID: "C4000", Class: doclog.ClassDocument, Author: "Alice", Title: "Typeof",
			Revisions: []*doclog.Revision{{ID: "C4000r1", RevID: "r1", DocID: "C4000", ExtID: "N3100", ExtURL: &link, Date: "2023-05-01", Author: "Alice", Title: "Typeof"}},
		},
		{
			ID: "CPUB1", Class: doclog.ClassPublication, Author: doclog.DefaultAuthor, Title: "C standard",
			Editions: []*doclog.Edition{{
				ID: "CPUB1e2", DocID: "CPUB1", Edition: 2, Name: "C23", Author: doclog.DefaultAuthor, Title: "C standard",
				Revisions: []*doclog.Revision{{ID: "CPUB1e2r1", RevID: "r1", DocID: "CPUB1e2", ExtID: "N3096", Date: "2023-04-01", Author: "WG14", Title: "Working draft"}},
			}},
		},
	}
	a := &doclog.Assignment{Documents: docs, RevisionIDs: map[int]string{3100: "C4000r1", 3096: "CPUB1e2r1"}}
	return doclog.NewAuditEntries(recs, a), docs
}

func TestAuditIndex_WriteAudit(t *testing.T) {
	t.Parallel()

	t.Run("stores records with their revision", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		ctx := context.Background()
		entries, docs := auditFixture()

		idx := sqlite.NewAuditIndex(db)
		require.NoError(t, idx.WriteAudit(ctx, entries, docs))
		require.NoError(t, idx.Commit())

		var class, rev string
		err := db.QueryRowContext(ctx, "SELECT class, revision_id FROM records WHERE number = ?", 3100).Scan(&class, &rev)
		require.NoError(t, err)
		assert.Equal(t, "c", class)
		assert.Equal(t, "C4000r1", rev)

		err = db.QueryRowContext(ctx, "SELECT class, revision_id FROM records WHERE number = ?", 3101).Scan(&class, &rev)
		require.NoError(t, err)
		assert.Equal(t, "cma", class)
		assert.Empty(t, rev)
	})

	t.Run("stores documents editions and revisions", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		ctx := context.Background()
		entries, docs := auditFixture()

		idx := sqlite.NewAuditIndex(db)
		require.NoError(t, idx.WriteAudit(ctx, entries, docs))
		require.NoError(t, idx.Commit())

		var parent sql.NullString
		err := db.QueryRowContext(ctx, "SELECT parent_id FROM documents WHERE id = ?", "CPUB1e2").Scan(&parent)
		require.NoError(t, err)
		assert.Equal(t, "CPUB1", parent.String)

		var docID string
		var number int
		var extURL sql.NullString
		err = db.QueryRowContext(ctx, "SELECT document_id, record_number, ext_url FROM revisions WHERE id = ?", "CPUB1e2r1").Scan(&docID, &number, &extURL)
		require.NoError(t, err)
		assert.Equal(t, "CPUB1e2", docID)
		assert.Equal(t, 3096, number)
		assert.False(t, extURL.Valid, "missing link is stored as NULL")

		err = db.QueryRowContext(ctx, "SELECT ext_url FROM revisions WHERE id = ?", "C4000r1").Scan(&extURL)
		require.NoError(t, err)
		assert.Equal(t, doclog.BaseURL+"www/docs/n3100.pdf", extURL.String)
	})

	t.Run("replaces previous contents", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		ctx := context.Background()
		entries, docs := auditFixture()
		idx := sqlite.NewAuditIndex(db)

		require.NoError(t, idx.WriteAudit(ctx, entries, docs))
		require.NoError(t, idx.Commit())
		require.NoError(t, idx.WriteAudit(ctx, entries[:1], docs[:1]))
		require.NoError(t, idx.Commit())

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n))
		assert.Equal(t, 1, n)
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		ctx := context.Background()
		entries, docs := auditFixture()
		idx := sqlite.NewAuditIndex(db)
		require.NoError(t, idx.WriteAudit(ctx, entries, docs))
		require.NoError(t, idx.Commit())

		// Revision of a record that is not in the audit listing.
		err := idx.WriteAudit(ctx, entries[2:], docs[:1])
		require.Error(t, err)

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n))
		assert.Equal(t, 3, n)
	})

	t.Run("abort keeps previous contents", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		ctx := context.Background()
		entries, docs := auditFixture()
		idx := sqlite.NewAuditIndex(db)
		require.NoError(t, idx.WriteAudit(ctx, entries, docs))
		require.NoError(t, idx.Commit())

		require.NoError(t, idx.WriteAudit(ctx, entries[:1], docs[:1]))
		require.NoError(t, idx.Abort())
		require.NoError(t, idx.Abort())

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n))
		assert.Equal(t, 3, n)
	})

	t.Run("commit without a write is a no-op", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, sqlite.NewAuditIndex(openDB(t)).Commit())
	})
}
