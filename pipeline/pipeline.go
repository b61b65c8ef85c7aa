// Package pipeline runs the curation stages over the document log and
// publishes the result.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/doclog"
)

// Runner orchestrates extraction, classification, grouping, identifier
// assignment and publication. Nothing is published unless every stage
// succeeds: documents and audit indexes are staged, then committed together.
type Runner struct {
	Extractor  doclog.RecordExtractor
	Classifier doclog.Classifier
	Grouper    doclog.Grouper
	Assigner   doclog.Assigner
	Documents  doclog.DocumentStore
	Audits     []doclog.AuditIndex

	// LastUpdate, if set, reads the log's last update stamp for logging.
	LastUpdate func(html string) (string, error)

	// Strict fails the run when a published identifier would change.
	Strict bool

	Logger *slog.Logger
}

// Result holds the outcome of a run.
type Result struct {
	Records   int
	Documents int
	Revisions int
	Conflicts []doclog.Conflict
}

// Run processes the raw log and publishes documents and audit indexes.
// Returns ECONFLICT in strict mode when previously published identifiers
// would change.
func (r *Runner) Run(ctx context.Context, logHTML string) (*Result, error) {
	committed := false
	defer func() {
		if committed {
			return
		}
		if abortErr := r.Documents.Abort(); abortErr != nil {
			r.logger().Error("abort failed", "err", abortErr)
		}
		r.abortAudits(r.Audits)
	}()

	if r.LastUpdate != nil {
		if stamp, err := r.LastUpdate(logHTML); err == nil {
			r.logger().Info("document log", "last_update", stamp)
		} else {
			r.logger().Warn("document log has no last update stamp", "err", err)
		}
	}

	recs, err := r.Extractor.Extract(logHTML)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	r.logger().Info("extracted records", "count", len(recs))

	classified := r.Classifier.Classify(recs)
	r.logClasses(classified)

	grouping, err := r.Grouper.Group(classified)
	if err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	r.logger().Info("grouped records", "groups", len(grouping.Groups))

	assignment, err := r.Assigner.Assign(classified, grouping)
	if err != nil {
		return nil, fmt.Errorf("assign: %w", err)
	}

	result := &Result{
		Records:   len(recs),
		Documents: len(assignment.Documents),
		Revisions: len(assignment.RevisionIDs),
	}
	r.logger().Info("assigned identifiers", "documents", result.Documents, "revisions", result.Revisions)

	previous, err := r.Documents.FindDocuments(ctx, doclog.DocumentFilter{})
	if err != nil {
		return nil, fmt.Errorf("read published documents: %w", err)
	}
	result.Conflicts = doclog.Verify(previous, assignment.Documents)
	for _, c := range result.Conflicts {
		r.logger().Warn("identifier changed", "id", c.ID, "previous", c.Previous, "current", c.Current)
	}
	if r.Strict && len(result.Conflicts) > 0 {
		return nil, doclog.Errorf(doclog.ECONFLICT, "%d published identifiers would change, first: %s", len(result.Conflicts), result.Conflicts[0])
	}

	for _, d := range assignment.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.Documents.Save(ctx, d); err != nil {
			return nil, fmt.Errorf("save %s: %w", d.ID, err)
		}
	}

	entries := doclog.NewAuditEntries(classified, assignment)
	for _, idx := range r.Audits {
		if err := idx.WriteAudit(ctx, entries, assignment.Documents); err != nil {
			return nil, fmt.Errorf("write audit: %w", err)
		}
	}

	if err := r.Documents.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true

	// Audit indexes are published only once the metadata is.
	for i, idx := range r.Audits {
		if err := idx.Commit(); err != nil {
			r.abortAudits(r.Audits[i+1:])
			return nil, fmt.Errorf("commit audit: %w", err)
		}
	}
	return result, nil
}

func (r *Runner) abortAudits(audits []doclog.AuditIndex) {
	for _, idx := range audits {
		if err := idx.Abort(); err != nil {
			r.logger().Error("audit abort failed", "err", err)
		}
	}
}

func (r *Runner) logClasses(recs []*doclog.ClassifiedRecord) {
	counts := make(map[doclog.Class]int)
	for _, rec := range recs {
		counts[rec.Class]++
	}
	args := make([]any, 0, 2*len(doclog.Classes))
	for _, c := range doclog.Classes {
		args = append(args, string(c), counts[c])
	}
	r.logger().Info("classified records", args...)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
