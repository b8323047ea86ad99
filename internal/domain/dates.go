package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for every date crossing the
// package boundary. Dates in this format compare correctly as strings.
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// AddDays shifts an ISO date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// Today returns the UTC calendar date of now.
func Today(now time.Time) string {
	return FormatDate(now)
}

// CanonicalDate parses s and returns it in DateLayout, so padded input
// compares like its trimmed form.
func CanonicalDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// ValidateRange checks an inclusive [from, to] request window against today
// and returns both bounds in canonical form. Future dates are rejected before
// ordering so that a future-dated request never reaches a data source.
func ValidateRange(from, to string, now time.Time) (string, string, error) {
	cf, err := CanonicalDate(from)
	if err != nil {
		return "", "", InvalidRequestError("dateFrom must be a YYYY-MM-DD date")
	}
	ct, err := CanonicalDate(to)
	if err != nil {
		return "", "", InvalidRequestError("dateTo must be a YYYY-MM-DD date")
	}
	today := Today(now)
	if cf > today || ct > today {
		return "", "", FutureDateError(today)
	}
	if cf > ct {
		return "", "", InvalidRangeError()
	}
	return cf, ct, nil
}
