package doclog

// RecordExtractor parses the raw document log into records.
type RecordExtractor interface {
	// Extract returns the records of the log in log order.
	Extract(log string) ([]*Record, error)
}

// Classifier assigns a class to every record.
type Classifier interface {
	Classify(recs []*Record) []*ClassifiedRecord
}

// Grouper partitions classified records into logical documents.
type Grouper interface {
	Group(recs []*ClassifiedRecord) (*Grouping, error)
}

// Assigner assigns durable identifiers to grouped records.
type Assigner interface {
	Assign(recs []*ClassifiedRecord, grouping *Grouping) (*Assignment, error)
}
