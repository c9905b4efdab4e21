package dates

import (
	"fmt"
	"regexp"
	"time"
)

// ISO is the calendar date layout used everywhere in this tool.
const ISO = "2006-01-02"

var (
	isoPattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirstPattern = regexp.MustCompile(`^(\d{2})[-/](\d{2})[-/](\d{4})$`)
)

// parse anchors the date to noon UTC so that day arithmetic never shifts
// across a calendar boundary when a local timezone or DST offset is applied.
func parse(date string) (time.Time, error) {
	t, err := time.Parse(ISO, date)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(12 * time.Hour), nil
}

// AddDays returns date moved n calendar days forward. Unparseable input is
// returned unchanged.
func AddDays(date string, n int) string {
	t, err := parse(date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(ISO)
}

// SubDays returns date moved n calendar days back.
func SubDays(date string, n int) string {
	return AddDays(date, -n)
}

// NextDay returns the calendar day after date.
func NextDay(date string) string {
	return AddDays(date, 1)
}

// Valid reports whether date is a parseable YYYY-MM-DD calendar date.
func Valid(date string) bool {
	_, err := time.Parse(ISO, date)
	return err == nil
}

// Today returns the current UTC calendar date.
func Today() string {
	return time.Now().UTC().Format(ISO)
}

// NormalizeISO rewrites DD-MM-YYYY and DD/MM/YYYY inputs to YYYY-MM-DD.
// YYYY-MM-DD passes through, and so does any other shape: the caller gets
// the original string back rather than an error.
func NormalizeISO(input string) string {
	if isoPattern.MatchString(input) {
		return input
	}
	if m := dayFirstPattern.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
	}
	return input
}
