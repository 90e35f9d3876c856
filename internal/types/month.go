// Package types implements special types for the vibestats backend.
package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Month is a month in a specific year. It is the key for all override and
// simulation lookups and serializes as "YYYY-MM".
type Month time.Time

// monthKeyPattern matches the canonical "YYYY-MM" key format.
var monthKeyPattern = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])$`)

// fallbackDays is used when a raw month key cannot be parsed. Internal helpers
// prefer a plausible value over a failure.
const fallbackDays = 30

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a time occurs in that time's location.
func MonthOf(t time.Time) Month {
	year, month, _ := t.Date()
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, t.Location()))
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents.
func ParseMonth(s string) (Month, error) {
	if !monthKeyPattern.MatchString(s) {
		return Month{}, fmt.Errorf("invalid month key %q, expected format \"YYYY-MM\"", s)
	}

	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, err
	}

	return MonthOf(t), nil
}

// ParseDateToMonth parses a string in RFC3339 full-date format and returns the
// Month value it represents.
func ParseDateToMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Month{}, err
	}

	return MonthOf(t), nil
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// MarshalJSON implements the json.Marshaler interface.
// The output is the result of m.String().
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", m.String())), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// "YYYY-MM", "YYYY-MM-DD" and RFC3339 timestamps are accepted. From the parsed
// string, everything except the year and month is ignored.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	var pattern string
	switch {
	case monthKeyPattern.MatchString(value):
		pattern = "2006-01"
	case regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`).MatchString(value):
		pattern = "2006-01-02"
	default:
		pattern = time.RFC3339
	}

	t, err := time.Parse(pattern, value)
	if err != nil {
		return err
	}

	*m = NewMonth(t.Year(), t.Month())
	return nil
}

// Valid reports whether the month is inside the supported range.
// Override keys are only accepted for years 2000 through 2100.
func (m Month) Valid() bool {
	year := time.Time(m).Year()
	return year >= 2000 && year <= 2100
}

// ValidKey reports whether a raw string is a well-formed month key inside the
// supported range.
func ValidKey(s string) bool {
	m, err := ParseMonth(s)
	if err != nil {
		return false
	}

	return m.Valid()
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	// Day 0 of the next month is the last day of this month
	t := time.Time(m)
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DaysInKey returns the number of days for a raw month key. Malformed keys
// get the 30 day fallback so that day-level helpers always have a range to
// work with.
func DaysInKey(s string) int {
	m, err := ParseMonth(s)
	if err != nil {
		return fallbackDays
	}

	return m.Days()
}

// Day returns the time instant for a 1-based day of the month.
func (m Month) Day(day int) time.Time {
	t := time.Time(m)
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location())
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Before reports whether the month instant m is before n.
func (m Month) Before(n Month) bool {
	return time.Time(m).Before(time.Time(n))
}

// After reports whether the month instant m is after n.
func (m Month) After(n Month) bool {
	return time.Time(m).After(time.Time(n))
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return time.Time(m).Equal(time.Time(n))
}

// Contains reports whether the time instant is in the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == time.Time(m).Year() && t.Month() == time.Time(m).Month()
}
