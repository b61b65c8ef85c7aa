// Package classify assigns taxonomy classes to document log records.
package classify

import (
	"strings"

	"github.com/fwojciec/doclog"
)

// Rule maps titles matching a predicate to a class.
type Rule struct {
	Class doclog.Class

	// Match reports whether the lowercased main title belongs to Class.
	Match func(lower string) bool
}

// contains matches titles containing every one of subs.
func contains(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}

// containsAny matches titles containing at least one of subs.
func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// DefaultRules are evaluated in order; the first match wins. Floating-point
// teleconference rules precede the generic agenda and minutes rules.
var DefaultRules = []Rule{
	{doclog.ClassPublication, contains("working draft")},
	{doclog.ClassPublication, contains("committee draft")},
	{doclog.ClassPublication, contains("editor's report")},
	{doclog.ClassPublication, contains("editor report")},
	{doclog.ClassPublication, contains("editor progress report")},
	{doclog.ClassPublication, contains("dts draft")},
	{doclog.ClassPublication, contains("revision draft")},
	{doclog.ClassPublication, contains("dis draft")},
	{doclog.ClassPublication, contains("examples of undefined behavior")},
	{doclog.ClassPublication, contains("ts proposal")},
	{doclog.ClassPublication, contains("generalized function calls")},
	{doclog.ClassPublication, contains("compendium")},
	{doclog.ClassPublication, contains("cr summary")},
	{doclog.ClassPublication, contains("clarification request summary")},
	{doclog.ClassPublication, contains("dr report")},
	{doclog.ClassPublication, contains("defect report summary")},
	{doclog.ClassPublication, contains("thread-based parallelism")},
	{doclog.ClassPublication, contains("latex")},
	{doclog.ClassPublication, contains("dts 17961")},
	{doclog.ClassPublication, contains("wdtr")},

	{doclog.ClassFPTeleAgenda, contains("fp teleconference", "agenda")},
	{doclog.ClassFPTeleAgenda, contains("c floating point study group teleconference")},
	{doclog.ClassFPTeleMinutes, func(s string) bool {
		return strings.Contains(s, "fp teleconference") && containsAny("minutes", "notes")(s)
	}},
	{doclog.ClassFPTeleMinutes, contains("fp meeting minutes")},

	{doclog.ClassAgenda, contains("agenda")},
	{doclog.ClassMinutes, contains("minutes")},
	// Misspelled in the log.
	{doclog.ClassAgenda, contains("agneda")},
	{doclog.ClassMinutes, contains("munutes")},

	{doclog.ClassMeeting, containsAny("venue", "invitation", "meeting information", "hotel")},

	{doclog.ClassAdmin, containsAny(
		"charter",
		"schedule",
		"liaison report",
		"liaison statement",
		"compat teleconference",
		"omnibus",
		"business plan",
		"standing document",
		"misra",
		"call for",
		"progress report",
		"annual report",
	)},
}

// Ensure Classifier implements doclog.Classifier at compile time.
var _ doclog.Classifier = (*Classifier)(nil)

// Classifier splits titles and assigns classes. It never fails: records no
// rule matches fall through to doclog.ClassDocument.
type Classifier struct {
	Rules []Rule

	// Reference supplies class overrides and meeting lists. May be nil.
	Reference *doclog.Reference
}

// NewClassifier returns a Classifier using DefaultRules.
func NewClassifier(ref *doclog.Reference) *Classifier {
	return &Classifier{Rules: DefaultRules, Reference: ref}
}

// Classify returns a classified copy of each record, in input order.
// The input records are not modified.
func (c *Classifier) Classify(recs []*doclog.Record) []*doclog.ClassifiedRecord {
	out := make([]*doclog.ClassifiedRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, c.ClassifyRecord(r))
	}
	return out
}

// ClassifyRecord classifies a single record.
func (c *Classifier) ClassifyRecord(r *doclog.Record) *doclog.ClassifiedRecord {
	cr := &doclog.ClassifiedRecord{Record: *r}
	cr.MainTitle, cr.AuxTitle = doclog.SplitTitle(r.Title)
	cr.Class = c.ClassOf(cr.MainTitle)

	if c.Reference != nil {
		if class, ok := c.Reference.ClassOverrides[r.Number]; ok {
			cr.Class = class
		}
		if meetings := c.Reference.Meetings[r.Number]; len(meetings) > 0 {
			cr.Meetings = append([]string(nil), meetings...)
		}
	}
	return cr
}

// ClassOf returns the heuristic class of a main title, ignoring overrides.
func (c *Classifier) ClassOf(mainTitle string) doclog.Class {
	lower := strings.ToLower(mainTitle)
	for _, rule := range c.Rules {
		if rule.Match(lower) {
			return rule.Class
		}
	}
	return doclog.ClassDocument
}
