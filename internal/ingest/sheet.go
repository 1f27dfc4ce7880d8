// ABOUTME: Raw worksheet model and .xlsx reading via excelize.
// ABOUTME: Headers are unit-suffix normalized once, before detection and mapping.
package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// unitSuffixRe matches a trailing parenthesized unit annotation such as
// " (kcal)", " (g)", or " (kg)". Bulk exports suffix their headers with
// display units while daily exports use the bare form.
var unitSuffixRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// NormalizeHeader strips a trailing parenthesized unit suffix from a
// header name. Applying it to an already-bare header is a no-op.
func NormalizeHeader(h string) string {
	return strings.TrimSpace(unitSuffixRe.ReplaceAllString(h, ""))
}

// Sheet is one worksheet with normalized headers and cell values keyed by
// header. Empty cells are absent from the row maps.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// newSheet builds a Sheet from excelize row data. The first row is the
// header row; fully blank rows are dropped.
func newSheet(name string, raw [][]string) *Sheet {
	s := &Sheet{Name: name}
	if len(raw) == 0 {
		return s
	}

	for _, h := range raw[0] {
		s.Headers = append(s.Headers, NormalizeHeader(h))
	}

	for _, cells := range raw[1:] {
		row := make(map[string]string, len(s.Headers))
		blank := true
		for i, h := range s.Headers {
			if i >= len(cells) {
				break
			}
			v := strings.TrimSpace(cells[i])
			if v == "" || h == "" {
				continue
			}
			row[h] = v
			blank = false
		}
		if !blank {
			s.Rows = append(s.Rows, row)
		}
	}
	return s
}

// HasHeader reports whether the sheet carries the given normalized header.
func (s *Sheet) HasHeader(name string) bool {
	for _, h := range s.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// RenameHeader rewrites one header name across the sheet, used for bulk
// sheets whose column names differ from the daily-export form.
func (s *Sheet) RenameHeader(from, to string) {
	for i, h := range s.Headers {
		if h == from {
			s.Headers[i] = to
		}
	}
	for _, row := range s.Rows {
		if v, ok := row[from]; ok {
			delete(row, from)
			row[to] = v
		}
	}
}

// readSheet loads one named worksheet from an open workbook.
func readSheet(f *excelize.File, name string) (*Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return newSheet(name, rows), nil
}

// readFirstSheet loads the workbook's first worksheet, the single-sheet
// export layout.
func readFirstSheet(f *excelize.File) (*Sheet, error) {
	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return readSheet(f, name)
}
