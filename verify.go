package doclog

import (
	"fmt"
	"sort"
)

// Conflict is a previously published identifier that no longer refers to the
// same source record.
type Conflict struct {
	// ID is the document or revision identifier.
	ID string

	// Previous and Current are the ext-ids the identifier referred to.
	// Current is empty when the identifier is no longer assigned.
	Previous string
	Current  string
}

func (c Conflict) String() string {
	if c.Current == "" {
		return fmt.Sprintf("%s (was %s) is no longer assigned", c.ID, c.Previous)
	}
	return fmt.Sprintf("%s moved from %s to %s", c.ID, c.Previous, c.Current)
}

// Verify compares the current documents against previously published ones.
// Every published document must still exist, and every published revision
// must still refer to the same source record. New identifiers are allowed.
// Conflicts are sorted by identifier.
func Verify(previous, current []*Document) []Conflict {
	docs := make(map[string]bool, len(current))
	revs := make(map[string]string)
	for _, d := range current {
		docs[d.ID] = true
		for _, ed := range d.Editions {
			docs[ed.ID] = true
		}
		for _, r := range d.AllRevisions() {
			revs[r.ID] = r.ExtID
		}
	}

	var conflicts []Conflict
	for _, d := range previous {
		if !docs[d.ID] {
			conflicts = append(conflicts, Conflict{ID: d.ID, Previous: firstExtID(d)})
		}
		for _, r := range d.AllRevisions() {
			if cur := revs[r.ID]; cur != r.ExtID {
				conflicts = append(conflicts, Conflict{ID: r.ID, Previous: r.ExtID, Current: cur})
			}
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].ID < conflicts[j].ID
	})
	return conflicts
}

func firstExtID(d *Document) string {
	if revs := d.AllRevisions(); len(revs) > 0 {
		return revs[0].ExtID
	}
	return ""
}
