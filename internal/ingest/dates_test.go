// ABOUTME: Tests for cell parsing: date layouts, Excel serials, numbers.
// ABOUTME: Program dates are day-first; data dates are ISO or US-slashed.
package ingest

import (
	"testing"
)

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15"},
		{"2024-01-15 08:30:00", "2024-01-15"},
		{"2024/01/15", "2024-01-15"},
		{"1/15/2024", "2024-01-15"},
		{"Jan 15, 2024", "2024-01-15"},
	}
	for _, c := range cases {
		got, err := parseDate(c.in)
		if err != nil {
			t.Errorf("parseDate(%q) failed: %v", c.in, err)
			continue
		}
		if got.Format("2006-01-02") != c.want {
			t.Errorf("parseDate(%q) = %s, want %s", c.in, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestParseDateExcelSerial(t *testing.T) {
	// 45306 is 2024-01-15 in Excel's 1900 date system.
	got, err := parseDate("45306")
	if err != nil {
		t.Fatalf("parseDate failed: %v", err)
	}
	if got.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("got %s, want 2024-01-15", got.Format("2006-01-02"))
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not a date", "banana"} {
		if _, err := parseDate(in); err == nil {
			t.Errorf("parseDate(%q) should fail", in)
		}
	}
}

func TestParseProgramDateDayFirst(t *testing.T) {
	got, err := parseProgramDate("05/02/2024")
	if err != nil {
		t.Fatalf("parseProgramDate failed: %v", err)
	}
	if got.Format("2006-01-02") != "2024-02-05" {
		t.Errorf("got %s, want 2024-02-05 (day-first)", got.Format("2006-01-02"))
	}
}

func TestParseFloat(t *testing.T) {
	if v, ok := parseFloat("2,100.5"); !ok || v != 2100.5 {
		t.Errorf("parseFloat with separator: got %v %v", v, ok)
	}
	if _, ok := parseFloat(""); ok {
		t.Error("empty cell should not parse")
	}
	if _, ok := parseFloat("n/a"); ok {
		t.Error("non-numeric cell should not parse")
	}
}

func TestParseInt(t *testing.T) {
	if n, ok := parseInt("3"); !ok || n != 3 {
		t.Errorf("parseInt(3): got %v %v", n, ok)
	}
	if n, ok := parseInt("3.0"); !ok || n != 3 {
		t.Errorf("parseInt(3.0): got %v %v", n, ok)
	}
	if _, ok := parseInt("3.5"); ok {
		t.Error("fractional cell should not parse as int")
	}
}
