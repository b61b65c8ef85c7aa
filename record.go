package doclog

import (
	"sort"
	"strconv"
)

// Record is one raw entry from the document log.
type Record struct {
	// Number is the numeric value of the document number and the record's key.
	Number int

	// ID is the document number as written in the log, possibly zero-padded.
	ID string

	// Link is the absolute source URL, or empty when the log has no link.
	Link string

	// Date is normalized to YYYY-MM-DD.
	Date string

	Author string

	// Title is lightweight Markdown.
	Title string
}

// ExtID returns the external identifier of the record, e.g. "N3200".
func (r *Record) ExtID() string {
	return "N" + r.ID
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.Number <= 0 {
		return Errorf(EINVALID, "record number must be positive")
	}
	if r.ID == "" {
		return Errorf(EINVALID, "record ID required")
	}
	if n, err := strconv.Atoi(r.ID); err != nil || n != r.Number {
		return Errorf(EINVALID, "record ID %q does not match number %d", r.ID, r.Number)
	}
	if r.Date == "" {
		return Errorf(EINVALID, "record N%s date required", r.ID)
	}
	return nil
}

// Class is a taxonomy bucket assigned to a record.
type Class string

// Document classes.
const (
	ClassDocument      Class = "c"
	ClassAdmin         Class = "cadm"
	ClassPublication   Class = "cpub"
	ClassAgenda        Class = "cma"
	ClassMinutes       Class = "cmm"
	ClassFPTeleAgenda  Class = "cfptca"
	ClassFPTeleMinutes Class = "cfptcm"
	ClassMeeting       Class = "cm"
)

// Classes lists every class in a fixed order.
var Classes = []Class{
	ClassDocument,
	ClassAdmin,
	ClassPublication,
	ClassAgenda,
	ClassMinutes,
	ClassFPTeleAgenda,
	ClassFPTeleMinutes,
	ClassMeeting,
}

// ParseClass returns the class with the given name.
// Returns EINVALID if the name is not part of the taxonomy.
func ParseClass(s string) (Class, error) {
	for _, c := range Classes {
		if string(c) == s {
			return c, nil
		}
	}
	return "", Errorf(EINVALID, "unknown class %q", s)
}

// ClassifiedRecord is a record annotated by the classifier.
type ClassifiedRecord struct {
	Record

	Class Class

	// MainTitle is the title without its trailing revision annotation.
	MainTitle string

	// AuxTitle is the trailing revision annotation, e.g. "v3, updates N3100".
	// Empty when the title has none.
	AuxTitle string

	// Meetings lists the meetings at which the record was discussed.
	Meetings []string
}

// IndexRecords returns the records keyed by number.
func IndexRecords(recs []*ClassifiedRecord) map[int]*ClassifiedRecord {
	m := make(map[int]*ClassifiedRecord, len(recs))
	for _, r := range recs {
		m[r.Number] = r
	}
	return m
}

// SortedNumbers returns the record numbers in ascending order.
func SortedNumbers(recs []*ClassifiedRecord) []int {
	nums := make([]int, 0, len(recs))
	for _, r := range recs {
		nums = append(nums, r.Number)
	}
	sort.Ints(nums)
	return nums
}

// DateKey orders records by date, then by number.
type DateKey struct {
	Date   string
	Number int
}

// Less reports whether k sorts before o.
func (k DateKey) Less(o DateKey) bool {
	if k.Date != o.Date {
		return k.Date < o.Date
	}
	return k.Number < o.Number
}

// Key returns the record's (date, number) ordering key.
func (r *Record) Key() DateKey {
	return DateKey{Date: r.Date, Number: r.Number}
}
