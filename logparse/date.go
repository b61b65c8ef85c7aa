package logparse

import (
	"regexp"
	"time"

	"github.com/fwojciec/doclog"
)

var months = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

var (
	// 2024/01/31
	slashDateRe = regexp.MustCompile(`(?s)^(20[0-2][0-9])/([01][0-9])/([0-3][0-9])\s+(.*)$`)

	// 31-Jan-2004, used for 2001 to 2005 only.
	longDateRe = regexp.MustCompile(`(?s)^([0-3][0-9])-([A-Z][a-z]{2})-(200[1-5])\s+(.*)$`)

	// 31-Jan-04 or 31 Jan 98.
	shortDateRe = regexp.MustCompile(`(?s)^([0-3][0-9])[- ]([A-Z][a-z]{2})[- ]([089][0-9])\s+(.*)$`)
)

// ParseDate parses the date at the start of s and returns it as YYYY-MM-DD
// together with the remainder of s. Two-digit years starting with 0 are in
// the 2000s; those starting with 8 or 9 are in the 1900s.
func ParseDate(s string) (date, rest string, err error) {
	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3], m[4], nil
	}

	var day, mon, year string
	if m := longDateRe.FindStringSubmatch(s); m != nil {
		day, mon, year, rest = m[1], m[2], m[3], m[4]
	} else if m := shortDateRe.FindStringSubmatch(s); m != nil {
		day, mon, year, rest = m[1], m[2], m[3], m[4]
		if year[0] == '0' {
			year = "20" + year
		} else {
			year = "19" + year
		}
	} else {
		return "", "", doclog.Errorf(doclog.EINVALID, "could not parse date: %s", s)
	}

	mm, ok := months[mon]
	if !ok {
		return "", "", doclog.Errorf(doclog.EINVALID, "could not parse date: unknown month %q: %s", mon, s)
	}
	return year + "-" + mm + "-" + day, rest, nil
}

// validDate reports whether date is a real calendar date.
func validDate(date string) bool {
	_, err := time.Parse(time.DateOnly, date)
	return err == nil
}
