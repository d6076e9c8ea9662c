package receipt

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

type dateKind int

const (
	kindISO dateKind = iota
	kindNumeric
	kindDayMonthName
	kindMonthNameDay
)

type datePattern struct {
	re   *regexp.Regexp
	kind dateKind
}

const monthNames = `(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func compileDatePatterns() []datePattern {
	return []datePattern{
		{kind: kindISO, re: regexp.MustCompile(`\b(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})\b`)},
		{kind: kindNumeric, re: regexp.MustCompile(`\b(\d{1,2})[-/.](\d{1,2})[-/.](\d{4}|\d{2})\b`)},
		{kind: kindDayMonthName, re: regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?[\s\-]+` + monthNames + `,?[\s\-]+(\d{4}|\d{2})\b`)},
		{kind: kindMonthNameDay, re: regexp.MustCompile(`(?i)\b` + monthNames + `[\s\-]+(\d{1,2})(?:st|nd|rd|th)?,?[\s\-]+(\d{4}|\d{2})\b`)},
	}
}

type dateMatch struct {
	groups []string
	start  int
	kind   dateKind
}

// ExtractDate returns the first recognisable date. Lines are read in order
// and, within a line, the leftmost date wins. The result is midnight in the
// configured location.
func (e *Extractor) ExtractDate(lines []string) (time.Time, bool) {
	for _, line := range lines {
		var matches []dateMatch
		for _, p := range e.dates {
			for _, idx := range p.re.FindAllStringSubmatchIndex(line, -1) {
				groups := make([]string, 0, 3)
				for g := 1; g <= 3; g++ {
					groups = append(groups, line[idx[2*g]:idx[2*g+1]])
				}
				matches = append(matches, dateMatch{start: idx[0], kind: p.kind, groups: groups})
			}
		}

		sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

		for _, m := range matches {
			if t, ok := e.resolve(m); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func (e *Extractor) resolve(m dateMatch) (time.Time, bool) {
	switch m.kind {
	case kindISO:
		return e.build(atoi(m.groups[0]), atoi(m.groups[1]), atoi(m.groups[2]))

	case kindDayMonthName:
		return e.build(atoi(m.groups[2]), int(monthIndex[strings.ToLower(m.groups[1])]), atoi(m.groups[0]))

	case kindMonthNameDay:
		return e.build(atoi(m.groups[2]), int(monthIndex[strings.ToLower(m.groups[0])]), atoi(m.groups[1]))
	}

	a, b, c := atoi(m.groups[0]), atoi(m.groups[1]), atoi(m.groups[2])
	var year, month, day int
	switch e.cfg.DateOrder {
	case OrderDMY:
		year, month, day = c, b, a
	case OrderYMD:
		year, month, day = a, b, c
	default:
		year, month, day = c, a, b
	}

	if t, ok := e.build(year, month, day); ok {
		return t, true
	}
	return e.build(year, day, month)
}

// build validates the components and returns midnight on that date.
func (e *Extractor) build(year, month, day int) (time.Time, bool) {
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, e.cfg.Location)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
