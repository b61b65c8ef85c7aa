// Package assign assigns durable identifiers to logical documents.
//
// Each class is handled by the policy configured for it in the reference
// data. Identifiers depend only on sorted immutable record fields (date and
// number), so appending records to the log never renumbers existing documents.
package assign

import (
	"io"
	"log/slog"
	"sort"
	"strconv"

	"github.com/fwojciec/doclog"
)

// Ensure Assigner implements doclog.Assigner at compile time.
var _ doclog.Assigner = (*Assigner)(nil)

// Assigner assigns identifiers per class.
type Assigner struct {
	Reference *doclog.Reference
	Logger    *slog.Logger
}

// NewAssigner returns an Assigner using the given reference data.
func NewAssigner(ref *doclog.Reference, logger *slog.Logger) *Assigner {
	return &Assigner{Reference: ref, Logger: logger}
}

// Assign returns the documents of every configured class, in taxonomy order.
// Records of classes without a policy are left without an identifier.
func (a *Assigner) Assign(recs []*doclog.ClassifiedRecord, grouping *doclog.Grouping) (*doclog.Assignment, error) {
	out := &doclog.Assignment{RevisionIDs: make(map[int]string)}
	byNum := doclog.IndexRecords(recs)

	for _, class := range doclog.Classes {
		cfg := a.Reference.Config(class)
		if cfg == nil {
			continue
		}

		var docs []*doclog.Document
		var err error
		switch cfg.Policy {
		case doclog.PolicyAuto:
			docs, err = a.assignAuto(cfg, grouping.ByClass(class), byNum)
		case doclog.PolicyCatalog:
			docs, err = a.assignCatalog(cfg, ofClass(recs, class))
		case doclog.PolicyMeeting:
			docs, err = a.assignMeeting(cfg, ofClass(recs, class))
		case doclog.PolicyManual:
			docs, err = a.assignManual(cfg, ofClass(recs, class), byNum)
		default:
			err = doclog.Errorf(doclog.EINVALID, "class %s has unknown policy %q", class, cfg.Policy)
		}
		if err != nil {
			return nil, err
		}

		for _, d := range docs {
			for _, rev := range d.AllRevisions() {
				n, err := recordNumber(rev, byNum)
				if err != nil {
					return nil, err
				}
				if prev, ok := out.RevisionIDs[n]; ok {
					return nil, doclog.Errorf(doclog.EINTERNAL, "N%d assigned twice: %s and %s", n, prev, rev.ID)
				}
				out.RevisionIDs[n] = rev.ID
			}
		}
		a.logger().Debug("assigned identifiers", "class", class, "policy", cfg.Policy, "documents", len(docs))
		out.Documents = append(out.Documents, docs...)
	}
	return out, nil
}

func (a *Assigner) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.Logger
}

// ofClass returns the records of class c in ascending number order.
func ofClass(recs []*doclog.ClassifiedRecord, c doclog.Class) []*doclog.ClassifiedRecord {
	var out []*doclog.ClassifiedRecord
	for _, r := range recs {
		if r.Class == c {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out
}

// recordNumber finds the record a revision was built from.
func recordNumber(rev *doclog.Revision, byNum map[int]*doclog.ClassifiedRecord) (int, error) {
	n, err := strconv.Atoi(rev.ExtID[1:])
	if err != nil {
		return 0, doclog.Errorf(doclog.EINTERNAL, "revision %s has invalid ext-id %q", rev.ID, rev.ExtID)
	}
	if _, ok := byNum[n]; !ok {
		return 0, doclog.Errorf(doclog.EINTERNAL, "revision %s refers to unknown record %s", rev.ID, rev.ExtID)
	}
	return n, nil
}

// newRevision returns revision k (counting from 1) of document docID.
func newRevision(docID string, k int, r *doclog.ClassifiedRecord) *doclog.Revision {
	rev := &doclog.Revision{
		Author:   r.Author,
		Date:     r.Date,
		DocID:    docID,
		ExtID:    r.ExtID(),
		ID:       docID + "r" + strconv.Itoa(k),
		Meetings: r.Meetings,
		RevID:    "r" + strconv.Itoa(k),
		Title:    r.Title,
	}
	if r.Link != "" {
		link := r.Link
		rev.ExtURL = &link
	}
	return rev
}

// qualifies reports whether a group is numbered under cfg. The representative
// date must be at or after the cutoff unless a member is explicitly included;
// an explicitly excluded member disqualifies the group otherwise.
func qualifies(cfg *doclog.ClassConfig, rep *doclog.ClassifiedRecord, members []int) bool {
	for _, n := range members {
		if cfg.Include[n] {
			return true
		}
	}
	if cfg.Cutoff != "" && rep.Date < cfg.Cutoff {
		return false
	}
	for _, n := range members {
		if cfg.Exclude[n] {
			return false
		}
	}
	return true
}

// minKey returns the smallest (date, number) key among recs.
func minKey(recs []*doclog.ClassifiedRecord) doclog.DateKey {
	k := recs[0].Key()
	for _, r := range recs[1:] {
		if r.Key().Less(k) {
			k = r.Key()
		}
	}
	return k
}

// sequentialID returns the i-th (counting from 0) identifier of a class.
func sequentialID(cfg *doclog.ClassConfig, i int) string {
	return cfg.Prefix + strconv.Itoa(cfg.Base+i)
}
