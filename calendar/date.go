// Package calendar implements the events calendar store: fetch-and-parse
// cycles over the venue's events page, a time-boxed two-layer cache with
// deterministic fallback data, and date-tolerant event matching.
package calendar

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mwalczyk/backstage"
)

var (
	canonicalRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashRE     = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
	ordinalRE   = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
)

// textualLayouts are tried in order for written-out dates. Layouts without
// a year resolve to the year of the reference time.
var textualLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January",
	"2 Jan",
}

// NormalizeDate converts free-form date text to canonical YYYY-MM-DD form.
// Already-canonical input passes through. Slash and dash forms try UK
// day-first order, then US month-first order only if the first parse is
// invalid; this fallback order is behaviorally observable and must be
// preserved. Written-out forms (with optional ordinal suffixes) are tried
// next, and anything left goes through an unconstrained parse.
// Returns EINVALID if no interpretation succeeds.
func NormalizeDate(text string, now time.Time) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", backstage.Errorf(backstage.EINVALID, "empty date")
	}

	if canonicalRE.MatchString(trimmed) {
		if _, err := time.Parse(backstage.CanonicalDateLayout, trimmed); err == nil {
			return trimmed, nil
		}
		return "", backstage.Errorf(backstage.EINVALID, "invalid calendar date %q", trimmed)
	}

	if m := slashRE.FindStringSubmatch(trimmed); m != nil {
		first, second, year := atoi(m[1]), atoi(m[2]), normalizeYear(atoi(m[3]))
		// UK order first: day/month/year.
		if d, ok := makeDate(year, second, first); ok {
			return d, nil
		}
		// US order only when the UK reading is not a valid date.
		if d, ok := makeDate(year, first, second); ok {
			return d, nil
		}
		return "", backstage.Errorf(backstage.EINVALID, "unrecognized date %q", text)
	}

	cleaned := ordinalRE.ReplaceAllString(trimmed, "$1")
	for _, layout := range textualLayouts {
		t, err := time.Parse(layout, cleaned)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return t.Format(backstage.CanonicalDateLayout), nil
	}

	if t, err := dateparse.ParseAny(trimmed); err == nil {
		return t.Format(backstage.CanonicalDateLayout), nil
	}

	return "", backstage.Errorf(backstage.EINVALID, "unrecognized date %q", text)
}

// makeDate validates the components as a real calendar date and returns
// its canonical form.
func makeDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format(backstage.CanonicalDateLayout), true
}

func normalizeYear(y int) int {
	if y < 100 {
		return 2000 + y
	}
	return y
}

// atoi converts a digits-only regex capture; the pattern guarantees validity.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
