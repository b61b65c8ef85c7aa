package mock

import "github.com/fwojciec/doclog"

var _ doclog.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor is a mock implementation of doclog.RecordExtractor.
type RecordExtractor struct {
	ExtractFn func(log string) ([]*doclog.Record, error)
}

func (e *RecordExtractor) Extract(log string) ([]*doclog.Record, error) {
	return e.ExtractFn(log)
}

var _ doclog.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of doclog.Classifier.
type Classifier struct {
	ClassifyFn func(recs []*doclog.Record) []*doclog.ClassifiedRecord
}

func (c *Classifier) Classify(recs []*doclog.Record) []*doclog.ClassifiedRecord {
	return c.ClassifyFn(recs)
}

var _ doclog.Grouper = (*Grouper)(nil)

// Grouper is a mock implementation of doclog.Grouper.
type Grouper struct {
	GroupFn func(recs []*doclog.ClassifiedRecord) (*doclog.Grouping, error)
}

func (g *Grouper) Group(recs []*doclog.ClassifiedRecord) (*doclog.Grouping, error) {
	return g.GroupFn(recs)
}

var _ doclog.Assigner = (*Assigner)(nil)

// Assigner is a mock implementation of doclog.Assigner.
type Assigner struct {
	AssignFn func(recs []*doclog.ClassifiedRecord, grouping *doclog.Grouping) (*doclog.Assignment, error)
}

func (a *Assigner) Assign(recs []*doclog.ClassifiedRecord, grouping *doclog.Grouping) (*doclog.Assignment, error) {
	return a.AssignFn(recs, grouping)
}
