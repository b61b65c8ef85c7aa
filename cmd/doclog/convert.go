package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/doclog"
	"github.com/fwojciec/doclog/assign"
	"github.com/fwojciec/doclog/classify"
	"github.com/fwojciec/doclog/fs"
	"github.com/fwojciec/doclog/goquery"
	"github.com/fwojciec/doclog/group"
	"github.com/fwojciec/doclog/htmltomarkdown"
	"github.com/fwojciec/doclog/logparse"
	"github.com/fwojciec/doclog/pipeline"
	docslog "github.com/fwojciec/doclog/slog"
	"github.com/fwojciec/doclog/sqlite"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.Log)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Run 'doclog download' first")
		return fmt.Errorf("failed to read log: %w", err)
	}

	ref := deps.Reference
	store := fs.NewStore(c.Out, "papers", ref)
	store.Logger = deps.Logger

	runner := &pipeline.Runner{
		Extractor:  logparse.NewExtractor(htmltomarkdown.NewConverter(), ref, deps.Logger),
		Classifier: classify.NewClassifier(ref),
		Grouper:    group.NewGrouper(ref, deps.Logger),
		Assigner:   assign.NewAssigner(ref, deps.Logger),
		Documents:  docslog.NewLoggingStore(store, deps.Logger),
		Audits:     []doclog.AuditIndex{fs.NewIndexWriter(c.Out)},
		LastUpdate: goquery.LastUpdate,
		Strict:     c.Strict,
		Logger:     deps.Logger,
	}

	if c.DB != "" {
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", c.DB, err)
		}
		defer db.Close()
		runner.Audits = append(runner.Audits, sqlite.NewAuditIndex(db))
	}

	result, err := runner.Run(deps.Ctx, string(data))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doclog.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Published %d documents (%d revisions) from %d records\n",
		result.Documents, result.Revisions, result.Records)
	if n := len(result.Conflicts); n > 0 {
		fmt.Fprintf(deps.Stdout, "Warning: %d published identifiers changed\n", n)
		for _, conflict := range result.Conflicts {
			fmt.Fprintf(deps.Stdout, "  %s\n", conflict)
		}
	}
	return nil
}
