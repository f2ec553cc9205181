package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Lion-killer/FiatLux/internal/models"
)

// ukrainianMonths maps Ukrainian month names, in both genitive and nominative
// forms, to month numbers. Matching is case-insensitive.
var ukrainianMonths = map[string]time.Month{
	"січня":     time.January,
	"січень":    time.January,
	"лютого":    time.February,
	"лютий":     time.February,
	"березня":   time.March,
	"березень":  time.March,
	"квітня":    time.April,
	"квітень":   time.April,
	"травня":    time.May,
	"травень":   time.May,
	"червня":    time.June,
	"червень":   time.June,
	"липня":     time.July,
	"липень":    time.July,
	"серпня":    time.August,
	"серпень":   time.August,
	"вересня":   time.September,
	"вересень":  time.September,
	"жовтня":    time.October,
	"жовтень":   time.October,
	"листопада": time.November,
	"листопад":  time.November,
	"грудня":    time.December,
	"грудень":   time.December,
}

// absenceMarker is the phrase utility announcements put directly after the
// date line.
const absenceMarker = "години відсутності електропостачання"

// contextMarkers introduce a date in a headline, longest form first so the
// bare "на" does not shadow the others.
var contextMarkers = []string{"станом на", "графік на", "на"}

// footerMarkers open the trailing "next update" block some announcements
// carry; everything from the first marker on is ignored during date search.
var footerMarkers = []string{"наступне оновлення", "оновлено о", "оновлено:"}

var (
	dayMonthRe         = regexp.MustCompile(`(?i)(\d{1,2})\s+(` + monthAlternation() + `)`)
	dayMonthAnchoredRe = regexp.MustCompile(`(?i)^(\d{1,2})\s+(` + monthAlternation() + `)`)

	// The trailing boundary keeps queue keys like "1.2:" from reading as
	// numeric dates.
	numericDateRe         = regexp.MustCompile(`(?:^|[^\d.])(\d{1,2})\.(\d{1,2})(?:\.(\d{4}))?(?:$|[^:\d.])`)
	numericDateAnchoredRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})(?:\.(\d{4}))?(?:$|[^:\d.])`)

	contextMarkerRe = regexp.MustCompile(`(?i)(?:^|\s)(?:` + strings.Join(contextMarkers, "|") + `)\s+`)
)

func monthAlternation() string {
	names := make([]string, 0, len(ukrainianMonths))
	for name := range ukrainianMonths {
		names = append(names, name)
	}
	// Longer forms first: "листопад" is a prefix of "листопада".
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return strings.Join(names, "|")
}

// ResolveDate extracts the single calendar date a message refers to.
// Strategies run in order: the absence-marker block, contextual markers in
// the headline, a whole-text search with the update footer stripped, relative
// keywords, and finally the reference date itself. The returned day is
// midnight in now's location. ok is false only for blank input.
func ResolveDate(text string, now time.Time) (time.Time, bool) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, false
	}

	lines := strings.Split(text, "\n")

	if d, ok := dateNearAbsenceMarker(lines, now); ok {
		return d, true
	}
	if d, ok := dateAfterContextMarker(lines, now); ok {
		return d, true
	}
	if d, ok := dateAnywhere(text, now); ok {
		return d, true
	}
	if d, ok := relativeDate(text, now); ok {
		return d, true
	}

	return models.StartOfDay(now), true
}

// dateNearAbsenceMarker searches the up-to-3 lines immediately preceding the
// absence-marker line for a day-number + month-name pattern.
func dateNearAbsenceMarker(lines []string, now time.Time) (time.Time, bool) {
	markerIdx := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), absenceMarker) {
			markerIdx = i
			break
		}
	}
	if markerIdx < 0 {
		return time.Time{}, false
	}

	for i := markerIdx - 1; i >= 0 && i >= markerIdx-3; i-- {
		if d, ok := matchDayMonth(lines[i], dayMonthRe, now); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// dateAfterContextMarker scans the first 3 non-empty lines for a marker word
// immediately followed by a day-number + month-name or a numeric date.
func dateAfterContextMarker(lines []string, now time.Time) (time.Time, bool) {
	seen := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		seen++
		if seen > 3 {
			break
		}

		for _, loc := range contextMarkerRe.FindAllStringIndex(line, -1) {
			rest := line[loc[1]:]
			if d, ok := matchDayMonth(rest, dayMonthAnchoredRe, now); ok {
				return d, true
			}
			if d, ok := matchNumericDate(rest, numericDateAnchoredRe, now); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// dateAnywhere strips the update footer and searches the remaining text for a
// day-number + month-name match, then a numeric one.
func dateAnywhere(text string, now time.Time) (time.Time, bool) {
	text = stripFooter(text)

	if d, ok := matchDayMonth(text, dayMonthRe, now); ok {
		return d, true
	}
	return matchNumericDate(text, numericDateRe, now)
}

func relativeDate(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "сьогодні") {
		return models.StartOfDay(now), true
	}
	if strings.Contains(lower, "завтра") {
		return models.StartOfDay(now).AddDate(0, 0, 1), true
	}
	return time.Time{}, false
}

func stripFooter(text string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, marker := range footerMarkers {
		if idx := strings.Index(lower, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return text[:cut]
}

func matchDayMonth(text string, re *regexp.Regexp, now time.Time) (time.Time, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	month, ok := ukrainianMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}

	year := resolveYear(month, now)
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
}

func matchNumericDate(text string, re *regexp.Regexp, now time.Time) (time.Time, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	monthNum, err := strconv.Atoi(m[2])
	if err != nil || monthNum < 1 || monthNum > 12 {
		return time.Time{}, false
	}
	month := time.Month(monthNum)

	var year int
	if m[3] != "" {
		year, err = strconv.Atoi(m[3])
		if err != nil {
			return time.Time{}, false
		}
	} else {
		year = resolveYear(month, now)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
}

// resolveYear applies the year-boundary rollover: an announcement posted in
// late December for January belongs to the next year, and one posted in
// January for December to the previous one.
func resolveYear(month time.Month, now time.Time) int {
	switch {
	case now.Month() == time.December && month == time.January:
		return now.Year() + 1
	case now.Month() == time.January && month == time.December:
		return now.Year() - 1
	default:
		return now.Year()
	}
}
