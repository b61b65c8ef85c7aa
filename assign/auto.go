package assign

import (
	"sort"

	"github.com/fwojciec/doclog"
)

type autoDoc struct {
	key     doclog.DateKey
	rep     *doclog.ClassifiedRecord
	members []*doclog.ClassifiedRecord
}

// assignAuto numbers qualifying title groups sequentially in order of their
// earliest (date, number). Revisions follow ascending record number and the
// highest-numbered record represents the document.
func (a *Assigner) assignAuto(cfg *doclog.ClassConfig, groups []*doclog.Group, byNum map[int]*doclog.ClassifiedRecord) ([]*doclog.Document, error) {
	var docs []*autoDoc
	for _, g := range groups {
		members := make([]*doclog.ClassifiedRecord, 0, len(g.Members))
		for _, n := range g.Members {
			r, ok := byNum[n]
			if !ok {
				return nil, doclog.Errorf(doclog.EINTERNAL, "group member N%d has no record", n)
			}
			members = append(members, r)
		}
		rep := byNum[g.Max()]
		if !qualifies(cfg, rep, g.Members) {
			continue
		}
		docs = append(docs, &autoDoc{key: minKey(members), rep: rep, members: members})
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].key.Less(docs[j].key)
	})

	out := make([]*doclog.Document, 0, len(docs))
	for i, d := range docs {
		id := sequentialID(cfg, i)
		doc := &doclog.Document{
			Author: d.rep.Author,
			Class:  cfg.Class,
			ID:     id,
			Title:  d.rep.MainTitle,
		}
		for k, r := range d.members {
			doc.Revisions = append(doc.Revisions, newRevision(id, k+1, r))
		}
		out = append(out, doc)
	}
	return out, nil
}
