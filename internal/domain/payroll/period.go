package payroll

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Period is a calendar month identified by name and year.
type Period struct {
	Year  int
	Month time.Month
	// Key is the canonical identifier, e.g. "October 2025".
	Key string
	// Prefix is the "YYYY-MM" string used to match date-stamped records.
	Prefix string
	Start  time.Time
	End    time.Time
}

var monthsByName = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for month := time.January; month <= time.December; month++ {
		m[month.String()] = month
	}
	return m
}()

// NormalizeMonth title-cases a free-form month name and matches it against the
// twelve English month names.
func NormalizeMonth(month string) (time.Month, bool) {
	name := cases.Title(language.English).String(strings.TrimSpace(month))
	m, ok := monthsByName[name]
	return m, ok
}

// ResolvePeriod turns a month name and a 4-digit year into a Period.
func ResolvePeriod(month string, year int) (Period, error) {
	if strings.TrimSpace(month) == "" {
		return Period{}, fmt.Errorf("%w: month is required", ErrInvalidPeriod)
	}
	if year < 1000 || year > 9999 {
		return Period{}, fmt.Errorf("%w: year must be a 4-digit number", ErrInvalidPeriod)
	}
	m, ok := NormalizeMonth(month)
	if !ok {
		return Period{}, fmt.Errorf("%w: %q is not a full English month name", ErrInvalidPeriod, month)
	}
	return NewPeriod(year, m), nil
}

// NewPeriod builds a Period from an already valid year and month.
func NewPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Year:   year,
		Month:  month,
		Key:    fmt.Sprintf("%s %d", month.String(), year),
		Prefix: fmt.Sprintf("%04d-%02d", year, int(month)),
		Start:  start,
		End:    start.AddDate(0, 1, -1),
	}
}

// ParsePeriodKey parses a key such as "october 2025".
func ParsePeriodKey(key string) (Period, error) {
	fields := strings.Fields(key)
	if len(fields) != 2 {
		return Period{}, fmt.Errorf("%w: %q is not in \"<Month> <Year>\" form", ErrInvalidPeriod, key)
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return Period{}, fmt.Errorf("%w: invalid year %q", ErrInvalidPeriod, fields[1])
	}
	return ResolvePeriod(fields[0], year)
}

// Previous returns the calendar month before p.
func (p Period) Previous() Period {
	prev := p.Start.AddDate(0, -1, 0)
	return NewPeriod(prev.Year(), prev.Month())
}
