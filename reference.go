package doclog

import (
	"regexp"
	"sort"
	"time"
)

// Policy selects how identifiers are assigned for a class.
type Policy string

// Identifier assignment policies.
const (
	// PolicyAuto numbers title-grouped documents sequentially from a cutoff date.
	PolicyAuto Policy = "auto"

	// PolicyCatalog maps records onto a fixed enumeration of publications.
	PolicyCatalog Policy = "catalog"

	// PolicyMeeting groups records by the meeting they belong to.
	PolicyMeeting Policy = "meeting"

	// PolicyManual keeps each record separate unless grouped by hand.
	PolicyManual Policy = "manual"
)

// ClassConfig is the identifier policy for one class.
type ClassConfig struct {
	Class  Class
	Prefix string
	Policy Policy

	// Base is the first sequential number. Unused by PolicyCatalog.
	Base int

	// Cutoff is the YYYY-MM-DD date from which documents are numbered.
	// Empty means every document qualifies.
	Cutoff string

	// Include and Exclude adjust the set of qualifying groups by member number.
	Include map[int]bool
	Exclude map[int]bool

	// Sessions distinguishes meetings within a month by day.
	Sessions bool

	// Catalog and AuxKeywords are used by PolicyCatalog only.
	Catalog     []*CatalogEntry
	AuxKeywords []string
}

// CatalogEntry is one fixed publication of a catalog class.
type CatalogEntry struct {
	Position int
	Title    string

	// Keywords are matched case-insensitively against record titles.
	Keywords []string

	// Default marks the entry receiving records no keyword matches.
	Default bool

	// Editions are ordered by ascending cutoff.
	Editions []*CatalogEdition
}

// CatalogEdition is a dated partition of a catalog entry.
type CatalogEdition struct {
	Number int
	Name   string

	// Cutoff is the YYYY-MM-DD date from which records belong to the edition.
	Cutoff string
}

// Correction is a literal fix for a known error in the log.
type Correction struct {
	Date   string
	Author string
}

// Reference is read-only reference data: override tables and class policies.
type Reference struct {
	// Corrections fix parsed fields, keyed by record number.
	Corrections map[int]Correction

	// ClassOverrides replace the heuristic class, keyed by record number.
	ClassOverrides map[int]Class

	// TitleRemap maps variant main titles onto one canonical grouping title.
	TitleRemap map[string]string

	// NoGroupTitles are titles shared by unrelated documents.
	NoGroupTitles map[string]bool

	// GroupKeys pin a record to an explicit grouping key.
	GroupKeys map[int]string

	// Meetings lists, by record number, the meetings the record was discussed at.
	Meetings map[int][]string

	// MeetingDates override the meeting a record belongs to, as YYYY-MM or YYYY-MM-DD.
	MeetingDates map[int]string

	// MeetingGroups lists records that are versions of one generic meeting document.
	MeetingGroups [][]int

	// CatalogOverrides map a record number to a catalog entry position.
	CatalogOverrides map[int]int

	// AuxiliaryOverrides force a catalog record to be auxiliary (true) or primary (false).
	AuxiliaryOverrides map[int]bool

	Classes map[Class]*ClassConfig
}

// Config returns the policy for class c, or nil if c has none.
func (r *Reference) Config(c Class) *ClassConfig {
	if r == nil {
		return nil
	}
	return r.Classes[c]
}

// ClassesWithPolicy returns the configured classes using policy p, in taxonomy order.
func (r *Reference) ClassesWithPolicy(p Policy) []Class {
	var out []Class
	for _, c := range Classes {
		if cfg := r.Config(c); cfg != nil && cfg.Policy == p {
			out = append(out, c)
		}
	}
	return out
}

var meetingDateRe = regexp.MustCompile(`^[0-9]{4}-[01][0-9](-[0-3][0-9])?$`)

// Validate returns an error if the reference data is inconsistent.
func (r *Reference) Validate() error {
	prefixes := make(map[string]Class)
	for c, cfg := range r.Classes {
		if _, err := ParseClass(string(c)); err != nil {
			return err
		}
		if cfg.Prefix == "" {
			return Errorf(EINVALID, "class %s prefix required", c)
		}
		if other, ok := prefixes[cfg.Prefix]; ok {
			return Errorf(EINVALID, "classes %s and %s share prefix %q", other, c, cfg.Prefix)
		}
		prefixes[cfg.Prefix] = c
		if err := validateDate(cfg.Cutoff); err != nil {
			return Errorf(EINVALID, "class %s cutoff: %s", c, ErrorMessage(err))
		}
		switch cfg.Policy {
		case PolicyAuto, PolicyMeeting, PolicyManual:
		case PolicyCatalog:
			if err := validateCatalog(c, cfg.Catalog); err != nil {
				return err
			}
		default:
			return Errorf(EINVALID, "class %s has unknown policy %q", c, cfg.Policy)
		}
	}
	for n, c := range r.ClassOverrides {
		if _, err := ParseClass(string(c)); err != nil {
			return Errorf(EINVALID, "override for N%d: %s", n, ErrorMessage(err))
		}
	}
	for n, corr := range r.Corrections {
		if err := validateDate(corr.Date); err != nil {
			return Errorf(EINVALID, "correction for N%d: %s", n, ErrorMessage(err))
		}
	}
	for n, d := range r.MeetingDates {
		if !meetingDateRe.MatchString(d) {
			return Errorf(EINVALID, "meeting date for N%d: %q is not YYYY-MM or YYYY-MM-DD", n, d)
		}
	}
	return nil
}

func validateCatalog(c Class, entries []*CatalogEntry) error {
	if len(entries) == 0 {
		return Errorf(EINVALID, "catalog class %s has no entries", c)
	}
	positions := make(map[int]bool)
	defaults := 0
	for _, e := range entries {
		if e.Position <= 0 {
			return Errorf(EINVALID, "catalog entry %q position must be positive", e.Title)
		}
		if positions[e.Position] {
			return Errorf(EINVALID, "catalog position %d used twice", e.Position)
		}
		positions[e.Position] = true
		if e.Default {
			defaults++
		}
		if len(e.Editions) == 0 {
			return Errorf(EINVALID, "catalog entry %d has no editions", e.Position)
		}
		sorted := sort.SliceIsSorted(e.Editions, func(i, j int) bool {
			return e.Editions[i].Cutoff < e.Editions[j].Cutoff
		})
		if !sorted {
			return Errorf(EINVALID, "catalog entry %d editions are not ordered by cutoff", e.Position)
		}
		numbers := make(map[int]bool)
		for _, ed := range e.Editions {
			if numbers[ed.Number] {
				return Errorf(EINVALID, "catalog entry %d edition %d used twice", e.Position, ed.Number)
			}
			numbers[ed.Number] = true
			if err := validateDate(ed.Cutoff); err != nil {
				return Errorf(EINVALID, "catalog entry %d edition %d: %s", e.Position, ed.Number, ErrorMessage(err))
			}
		}
	}
	if defaults != 1 {
		return Errorf(EINVALID, "catalog class %s needs exactly one default entry, has %d", c, defaults)
	}
	return nil
}

// validateDate accepts an empty string or a YYYY-MM-DD calendar date.
func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return Errorf(EINVALID, "invalid date %q", s)
	}
	return nil
}
