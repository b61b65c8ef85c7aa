package assign

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/doclog"
)

// assignCatalog maps each record onto a fixed catalog entry and one of its
// editions. Document identifiers are derived from the entry position alone.
func (a *Assigner) assignCatalog(cfg *doclog.ClassConfig, recs []*doclog.ClassifiedRecord) ([]*doclog.Document, error) {
	byPos := make(map[int]*doclog.CatalogEntry, len(cfg.Catalog))
	for _, e := range cfg.Catalog {
		byPos[e.Position] = e
	}

	type editionKey struct{ position, number int }
	primary := make(map[editionKey][]*doclog.ClassifiedRecord)
	auxiliary := make(map[editionKey][]*doclog.ClassifiedRecord)

	for _, r := range recs {
		entry, err := a.catalogEntry(cfg, byPos, r)
		if err != nil {
			return nil, err
		}
		ed := catalogEdition(entry, r.Date)
		k := editionKey{entry.Position, ed.Number}
		if a.isAuxiliary(cfg, r) {
			auxiliary[k] = append(auxiliary[k], r)
		} else {
			primary[k] = append(primary[k], r)
		}
	}

	entries := append([]*doclog.CatalogEntry(nil), cfg.Catalog...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})

	var out []*doclog.Document
	for _, entry := range entries {
		docID := cfg.Prefix + strconv.Itoa(entry.Position)
		doc := &doclog.Document{
			Author: doclog.DefaultAuthor,
			Class:  cfg.Class,
			ID:     docID,
			Title:  entry.Title,
		}

		var auxDocs []*doclog.Document
		for _, ed := range entry.Editions {
			k := editionKey{entry.Position, ed.Number}
			if len(primary[k]) == 0 && len(auxiliary[k]) == 0 {
				continue
			}

			edID := docID + "e" + strconv.Itoa(ed.Number)
			edition := &doclog.Edition{
				Author:    doclog.DefaultAuthor,
				DocID:     docID,
				Edition:   ed.Number,
				ID:        edID,
				Name:      ed.Name,
				Revisions: []*doclog.Revision{},
				Title:     entry.Title,
			}
			for i, r := range primary[k] {
				edition.Revisions = append(edition.Revisions, newRevision(edID, i+1, r))
			}
			for i, r := range auxiliary[k] {
				auxID := edID + "a" + strconv.Itoa(i+1)
				auxDocs = append(auxDocs, &doclog.Document{
					Accompanies: edID,
					Author:      r.Author,
					Class:       cfg.Class,
					ID:          auxID,
					Revisions:   []*doclog.Revision{newRevision(auxID, 1, r)},
					Title:       r.MainTitle,
				})
				edition.Auxiliary = append(edition.Auxiliary, auxID)
			}
			doc.Editions = append(doc.Editions, edition)
		}

		if len(doc.Editions) == 0 {
			continue
		}
		out = append(out, doc)
		out = append(out, auxDocs...)
	}
	return out, nil
}

// catalogEntry returns the entry for r: the override if any, else the first
// entry with a keyword in the title, else the default entry.
func (a *Assigner) catalogEntry(cfg *doclog.ClassConfig, byPos map[int]*doclog.CatalogEntry, r *doclog.ClassifiedRecord) (*doclog.CatalogEntry, error) {
	if pos, ok := a.Reference.CatalogOverrides[r.Number]; ok {
		entry, ok := byPos[pos]
		if !ok {
			return nil, doclog.Errorf(doclog.EINVALID, "catalog override for %s: no entry at position %d", r.ExtID(), pos)
		}
		return entry, nil
	}

	lower := strings.ToLower(r.Title)
	var def *doclog.CatalogEntry
	for _, e := range cfg.Catalog {
		for _, kw := range e.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return e, nil
			}
		}
		if e.Default {
			def = e
		}
	}
	if def == nil {
		return nil, doclog.Errorf(doclog.EINVALID, "class %s catalog has no default entry", cfg.Class)
	}
	return def, nil
}

// catalogEdition returns the last edition whose cutoff is at or before date,
// or the first edition if there is none.
func catalogEdition(entry *doclog.CatalogEntry, date string) *doclog.CatalogEdition {
	ed := entry.Editions[0]
	for _, e := range entry.Editions {
		if e.Cutoff <= date {
			ed = e
		}
	}
	return ed
}

func (a *Assigner) isAuxiliary(cfg *doclog.ClassConfig, r *doclog.ClassifiedRecord) bool {
	if aux, ok := a.Reference.AuxiliaryOverrides[r.Number]; ok {
		return aux
	}
	lower := strings.ToLower(r.Title)
	for _, kw := range cfg.AuxKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
