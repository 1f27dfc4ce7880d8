// ABOUTME: Cell value parsing: dates in several export layouts, floats, ints.
// ABOUTME: Excel serial date numbers are converted from the 1899-12-30 epoch.
package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts seen across export modes. Daily exports write ISO dates,
// sometimes with a time component; some locales emit slashed forms.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// excelEpoch is day zero of Excel's 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseDate interprets a cell as a calendar day. Numeric cells are
// treated as Excel serial date numbers.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour))), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseProgramDate interprets a nutrition-program update date, which the
// settings sheet writes day-first (DD/MM/YYYY).
func parseProgramDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized program date %q", s)
}

// parseFloat reads a numeric cell, tolerating thousands separators.
func parseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseInt reads an integer cell. Whole-number floats ("3.0") count.
func parseInt(s string) (int, bool) {
	v, ok := parseFloat(s)
	if !ok {
		return 0, false
	}
	n := int(v)
	if float64(n) != v {
		return 0, false
	}
	return n, true
}
