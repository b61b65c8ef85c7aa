package doclog

import "context"

// Document is a logical document: a group of records published under one
// durable identifier. JSON keys are kept in alphabetical order.
type Document struct {
	// Accompanies is the edition an auxiliary catalog document belongs to.
	Accompanies string `json:"accompanies,omitempty"`

	Author string `json:"author"`
	Class  Class  `json:"class"`

	// Editions is set for catalog documents only.
	Editions []*Edition `json:"editions,omitempty"`

	ID        string      `json:"id"`
	Revisions []*Revision `json:"revisions,omitempty"`
	Title     string      `json:"title"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.Class == "" {
		return Errorf(EINVALID, "document %s class required", d.ID)
	}
	if len(d.Revisions) == 0 && len(d.Editions) == 0 {
		return Errorf(EINVALID, "document %s has no revisions", d.ID)
	}
	return nil
}

// AllRevisions returns the document's revisions, including those nested in editions.
func (d *Document) AllRevisions() []*Revision {
	revs := append([]*Revision(nil), d.Revisions...)
	for _, e := range d.Editions {
		revs = append(revs, e.Revisions...)
	}
	return revs
}

// Edition is a dated partition of a catalog document.
type Edition struct {
	Author string `json:"author"`

	// Auxiliary lists the IDs of auxiliary documents accompanying the edition.
	Auxiliary []string `json:"auxiliary,omitempty"`

	DocID     string      `json:"doc-id"`
	Edition   int         `json:"edition"`
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Revisions []*Revision `json:"revisions"`
	Title     string      `json:"title"`
}

// Revision is one source record published as a revision of a document.
type Revision struct {
	Author string `json:"author"`
	Date   string `json:"date"`
	DocID  string `json:"doc-id"`
	ExtID  string `json:"ext-id"`

	// ExtURL is null when the log has no link for the record.
	ExtURL *string `json:"ext-url"`

	ID       string   `json:"id"`
	Meetings []string `json:"meetings,omitempty"`
	RevID    string   `json:"rev-id"`
	Title    string   `json:"title"`
}

// Assignment is the result of identifier assignment.
type Assignment struct {
	// Documents in class order, then identifier order.
	Documents []*Document

	// RevisionIDs maps a record number to the revision identifier it was
	// published under. Records without an identifier are absent.
	RevisionIDs map[int]string
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID    *string `json:"id"`
	Class *Class  `json:"class"`
}

// DocumentStore persists documents with atomic semantics.
// Save writes to a pending location; Commit makes changes permanent;
// Abort discards pending changes.
type DocumentStore interface {
	// Save stores a document (and its editions) pending Commit.
	Save(ctx context.Context, doc *Document) error

	// FindDocuments retrieves committed documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	Commit() error
	Abort() error
}
