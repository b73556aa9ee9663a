package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/xhit/go-str2duration/v2"
)

const (
	// ExpiryLayout is machine sortable and used in branch names. Don't change it, existing
	// branches are parsed with it.
	ExpiryLayout = "2006-01-02/15.04-0700"

	DefaultExpiry = "in 30 days"
)

// absoluteLayouts are tried before any relative interpretation
var absoluteLayouts = []string{
	time.RFC3339,
	ExpiryLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

var fuzzyParser = newFuzzyParser()

func newFuzzyParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Expiry is a resolved expiry instant and its branch name rendering
type Expiry struct {
	Time      time.Time
	Formatted string
}

func newExpiry(t time.Time) Expiry {
	t = t.Truncate(time.Minute)
	return Expiry{Time: t, Formatted: t.Format(ExpiryLayout)}
}

var (
	// "in 3 months", "30 days", "a week from now"
	countPhrase = regexp.MustCompile(`^(?:in\s+)?(a|an|one|\d+)\s+(minute|hour|day|week|fortnight|month|year)s?(?:\s+from\s+now)?$`)
	// "next week"
	nextPhrase = regexp.MustCompile(`^next\s+(minute|hour|day|week|fortnight|month|year)$`)
)

// addCalendar moves now by n units. Days and longer keep the wall clock time; month and year
// steps carry into the year and normalize overflowing days (Jan 31 + 1 month is Mar 3).
func addCalendar(now time.Time, n int, unit string) time.Time {
	switch unit {
	case "minute":
		return now.Add(time.Duration(n) * time.Minute)
	case "hour":
		return now.Add(time.Duration(n) * time.Hour)
	case "day":
		return now.AddDate(0, 0, n)
	case "week":
		return now.AddDate(0, 0, 7*n)
	case "fortnight":
		return now.AddDate(0, 0, 14*n)
	case "month":
		return now.AddDate(0, n, 0)
	default:
		return now.AddDate(n, 0, 0)
	}
}

func parsePhrase(expr string, now time.Time) (time.Time, bool) {
	lower := strings.Join(strings.Fields(strings.ToLower(expr)), " ")
	if m := nextPhrase.FindStringSubmatch(lower); m != nil {
		return addCalendar(now, 1, m[1]), true
	}
	m := countPhrase.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	n := 1
	if m[1] != "a" && m[1] != "an" && m[1] != "one" {
		var err error
		if n, err = strconv.Atoi(m[1]); err != nil {
			return time.Time{}, false
		}
	}
	return addCalendar(now, n, m[2]), true
}

// future accepts a relative result only when it lies after now
func future(expr string, t, now time.Time) (Expiry, error) {
	expiry := newExpiry(t.In(now.Location()))
	if !expiry.Time.After(now) {
		return Expiry{}, fmt.Errorf("%q resolves to %s: %w", expr, expiry.Formatted, ErrExpiryNotInFuture)
	}
	return expiry, nil
}

// ResolveExpiry resolves a fuzzy expression relative to now. Accepted: absolute timestamps,
// counted phrases ("in 30 days", "in 3 months", "a year from now", "next week"), compact
// durations ("30d", "1w2d", "720h") and other english phrases ("tomorrow").
// Relative expressions must land after now; absolute ones may lie in the past. The result
// keeps now's location.
func ResolveExpiry(expr string, now time.Time) (Expiry, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultExpiry
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return newExpiry(t.In(now.Location())), nil
		}
	}
	if t, ok := parsePhrase(expr, now); ok {
		return future(expr, t, now)
	}
	if d, err := str2duration.ParseDuration(expr); err == nil {
		return future(expr, now.Add(d), now)
	}
	r, err := fuzzyParser.Parse(expr, now)
	if err != nil {
		return Expiry{}, fmt.Errorf("%q: %s: %w", expr, err, ErrInvalidExpiry)
	}
	if r == nil {
		return Expiry{}, fmt.Errorf("%q: %w", expr, ErrInvalidExpiry)
	}
	return future(expr, r.Time, now)
}

// ParseExpiry parses the rendering produced by ResolveExpiry
func ParseExpiry(formatted string) (time.Time, error) {
	t, err := time.Parse(ExpiryLayout, formatted)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %s: %w", formatted, err, ErrInvalidExpiry)
	}
	return t, nil
}
