package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jask/patientrecords/internal/records"
)

// ErrInvalidDateRange is returned for a range whose start is after its end.
var ErrInvalidDateRange = errors.New("invalid date range")

const rangeSep = ".."

// ParseDateRange reads "FROM..TO" where either side may be empty. A single
// date means that one day. "today" resolves in loc. Empty input clears the filter.
func ParseDateRange(s string, now time.Time, loc *time.Location) (records.DateFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return records.DateFilter{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	fromStr, toStr, found := strings.Cut(s, rangeSep)
	if !found {
		d, err := parseDay(s, now, loc)
		if err != nil {
			return records.DateFilter{}, err
		}
		return records.DateFilter{From: d, To: d}, nil
	}
	var f records.DateFilter
	var err error
	if strings.TrimSpace(fromStr) != "" {
		if f.From, err = parseDay(fromStr, now, loc); err != nil {
			return records.DateFilter{}, err
		}
	}
	if strings.TrimSpace(toStr) != "" {
		if f.To, err = parseDay(toStr, now, loc); err != nil {
			return records.DateFilter{}, err
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return records.DateFilter{}, fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange,
			f.From.Format(time.DateOnly), f.To.Format(time.DateOnly))
	}
	return f, nil
}

// FormatDateRange is the inverse of ParseDateRange for display in the prompt.
func FormatDateRange(f records.DateFilter) string {
	if f.IsZero() {
		return ""
	}
	var from, to string
	if !f.From.IsZero() {
		from = f.From.Format(time.DateOnly)
	}
	if !f.To.IsZero() {
		to = f.To.Format(time.DateOnly)
	}
	if from == to {
		return from
	}
	return from + rangeSep + to
}

// parseDay returns midnight UTC of the calendar day, matching stored card dates.
func parseDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "today") {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDateRange, s)
	}
	return d, nil
}
