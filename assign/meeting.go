package assign

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/doclog"
)

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

const monthPattern = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

var (
	// 2024-03-15 or 2024/03/15
	isoDateRe = regexp.MustCompile(`\b([0-9]{4})[-/]([01][0-9])[-/]([0-3][0-9])\b`)

	// March 15, 2024 or March 2024
	monthFirstRe = regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+(?:([0-3]?[0-9])(?:st|nd|rd|th)?(?:\s*[-–]\s*[0-3]?[0-9])?,?\s+)?([0-9]{4})\b`)

	// 15 March 2024
	dayFirstRe = regexp.MustCompile(`(?i)\b([0-3]?[0-9])(?:st|nd|rd|th)?(?:\s*[-–]\s*[0-3]?[0-9])?\s+` + monthPattern + `\.?,?\s+([0-9]{4})\b`)
)

// meetingKey identifies a meeting by year and month, and by day for classes
// that distinguish sessions. Day is zero otherwise.
type meetingKey struct {
	year, month, day int
}

func (k meetingKey) String() string {
	if k.day == 0 {
		return fmt.Sprintf("%04d-%02d", k.year, k.month)
	}
	return fmt.Sprintf("%04d-%02d-%02d", k.year, k.month, k.day)
}

// parseMeetingDate parses YYYY-MM or YYYY-MM-DD.
func parseMeetingDate(s string) (meetingKey, bool) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 || len(parts) > 3 {
		return meetingKey{}, false
	}
	var nums []int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return meetingKey{}, false
		}
		nums = append(nums, n)
	}
	k := meetingKey{year: nums[0], month: nums[1]}
	if len(nums) == 3 {
		k.day = nums[2]
	}
	return k, k.valid()
}

func (k meetingKey) valid() bool {
	return k.year > 0 && k.month >= 1 && k.month <= 12 && k.day >= 0 && k.day <= 31
}

// titleMeetingDate extracts a meeting date from a title. An ISO date wins
// over a spelled-out one; an invalid match of either form is skipped.
func titleMeetingDate(title string) (meetingKey, bool) {
	if m := isoDateRe.FindStringSubmatch(title); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if k := (meetingKey{year: y, month: mo, day: d}); k.valid() {
			return k, true
		}
	}
	if m := dayFirstRe.FindStringSubmatch(title); m != nil {
		if k, ok := monthKey(m[2], m[1], m[3]); ok {
			return k, true
		}
	}
	if m := monthFirstRe.FindStringSubmatch(title); m != nil {
		return monthKey(m[1], m[2], m[3])
	}
	return meetingKey{}, false
}

func monthKey(month, day, year string) (meetingKey, bool) {
	mo, ok := monthNames[strings.ToLower(month)[:3]]
	if !ok {
		return meetingKey{}, false
	}
	y, _ := strconv.Atoi(year)
	k := meetingKey{year: y, month: mo}
	if day != "" {
		k.day, _ = strconv.Atoi(day)
	}
	return k, k.valid()
}

// meetingKeyOf returns the meeting r belongs to: the reference override if
// any, else a date parsed from the title, else the record's own date.
func (a *Assigner) meetingKeyOf(cfg *doclog.ClassConfig, r *doclog.ClassifiedRecord) meetingKey {
	k, ok := meetingKey{}, false
	if s, found := a.Reference.MeetingDates[r.Number]; found {
		k, ok = parseMeetingDate(s)
	}
	if !ok {
		k, ok = titleMeetingDate(r.MainTitle)
	}
	if !ok {
		k, _ = parseMeetingDate(r.Date)
	}
	if !cfg.Sessions {
		k.day = 0
	}
	return k
}

// assignMeeting makes one document per meeting.
func (a *Assigner) assignMeeting(cfg *doclog.ClassConfig, recs []*doclog.ClassifiedRecord) ([]*doclog.Document, error) {
	byKey := make(map[meetingKey][]*doclog.ClassifiedRecord)
	var keys []meetingKey
	for _, r := range recs {
		k := a.meetingKeyOf(cfg, r)
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], r)
	}

	sets := make([][]*doclog.ClassifiedRecord, 0, len(keys))
	for _, k := range keys {
		a.logger().Debug("meeting", "class", cfg.Class, "meeting", k.String(), "records", len(byKey[k]))
		sets = append(sets, byKey[k])
	}
	return chronologicalDocuments(cfg, sets), nil
}

// assignManual makes one document per record, except for records listed
// together in the reference meeting groups.
func (a *Assigner) assignManual(cfg *doclog.ClassConfig, recs []*doclog.ClassifiedRecord, byNum map[int]*doclog.ClassifiedRecord) ([]*doclog.Document, error) {
	grouped := make(map[int]bool)
	var sets [][]*doclog.ClassifiedRecord
	for _, nums := range a.Reference.MeetingGroups {
		var set []*doclog.ClassifiedRecord
		for _, n := range nums {
			r, ok := byNum[n]
			switch {
			case !ok:
				a.logger().Warn("meeting group lists unknown record", "record", n)
				continue
			case r.Class != cfg.Class:
				a.logger().Warn("meeting group lists record of another class", "record", r.ExtID(), "class", r.Class)
				continue
			case grouped[n]:
				return nil, doclog.Errorf(doclog.EINVALID, "%s listed in more than one meeting group", r.ExtID())
			}
			grouped[n] = true
			set = append(set, r)
		}
		if len(set) > 0 {
			sets = append(sets, set)
		}
	}
	for _, r := range recs {
		if !grouped[r.Number] {
			sets = append(sets, []*doclog.ClassifiedRecord{r})
		}
	}
	return chronologicalDocuments(cfg, sets), nil
}

// chronologicalDocuments numbers record sets in order of their earliest
// (date, number). Revisions are ordered by (date, number) and the last-dated
// record represents the document. Sets are filtered by the class cutoff.
func chronologicalDocuments(cfg *doclog.ClassConfig, sets [][]*doclog.ClassifiedRecord) []*doclog.Document {
	type entry struct {
		key     doclog.DateKey
		members []*doclog.ClassifiedRecord
	}

	var entries []*entry
	for _, set := range sets {
		members := append([]*doclog.ClassifiedRecord(nil), set...)
		sort.Slice(members, func(i, j int) bool {
			return members[i].Key().Less(members[j].Key())
		})
		rep := members[len(members)-1]
		nums := make([]int, 0, len(members))
		for _, r := range members {
			nums = append(nums, r.Number)
		}
		if !qualifies(cfg, rep, nums) {
			continue
		}
		entries = append(entries, &entry{key: members[0].Key(), members: members})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key.Less(entries[j].key)
	})

	docs := make([]*doclog.Document, 0, len(entries))
	for i, e := range entries {
		id := sequentialID(cfg, i)
		rep := e.members[len(e.members)-1]
		doc := &doclog.Document{
			Author: rep.Author,
			Class:  cfg.Class,
			ID:     id,
			Title:  rep.MainTitle,
		}
		for k, r := range e.members {
			doc.Revisions = append(doc.Revisions, newRevision(id, k+1, r))
		}
		docs = append(docs, doc)
	}
	return docs
}
