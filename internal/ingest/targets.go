// ABOUTME: Historical calorie/protein target resolution from program settings.
// ABOUTME: A weekly pattern takes effect on its update date until superseded.
package ingest

import (
	"sort"
	"time"

	"github.com/lberg/macrolog/internal/models"
	"github.com/lberg/macrolog/internal/storage"
)

// programTargets is one weekly target pair from the settings sheet.
type programTargets struct {
	calories float64
	proteinG float64
}

// programKey addresses a target by the update that introduced it and the
// weekday it applies to.
type programKey struct {
	updateDate string
	weekday    string
}

// applyTargets resolves per-day calorie and protein targets from the
// nutrition program settings sheet and writes them onto existing
// daily_summary rows.
//
// The sheet stores targets keyed by (program update date, weekday): a
// program specifies a weekly pattern effective from its update date until
// a later update supersedes it. For each summary date the active program
// is the most recent update at or before that date; the (update, weekday)
// pair then yields the targets. Dates before the first update, or with no
// matching weekday row, are left untouched. This is a point-in-time join:
// it reconstructs the policy in effect on each day, which can differ
// retroactively as the program history grows.
//
// Returns the number of daily_summary rows updated.
func (imp *Importer) applyTargets(tx *storage.Tx, s *Sheet) (int, error) {
	const (
		dateCol    = "Program Update Date"
		weekdayCol = "Program Weekday"
		calCol     = "Calories"
		proteinCol = "Protein"
	)

	for _, required := range []string{dateCol, weekdayCol, calCol, proteinCol} {
		if !s.HasHeader(required) {
			imp.log.Warn("nutrition program settings missing column", "column", required)
			return 0, nil
		}
	}

	// Rows are read top to bottom, so a duplicated (update, weekday) pair
	// resolves deterministically to the last row.
	lookup := map[programKey]programTargets{}
	seen := map[string]bool{}
	var updateDates []string
	for _, row := range s.Rows {
		updated, err := parseProgramDate(row[dateCol])
		if err != nil {
			imp.log.Warn("skipping program row", "err", err)
			continue
		}
		cal, calOK := parseFloat(row[calCol])
		protein, proteinOK := parseFloat(row[proteinCol])
		if !calOK || !proteinOK {
			continue
		}

		day := updated.Format(models.DateLayout)
		lookup[programKey{day, row[weekdayCol]}] = programTargets{cal, protein}
		if !seen[day] {
			seen[day] = true
			updateDates = append(updateDates, day)
		}
	}
	if len(updateDates) == 0 {
		return 0, nil
	}
	sort.Strings(updateDates)

	summaryDates, err := tx.SummaryDates()
	if err != nil {
		return 0, err
	}

	// Both sequences are date-sorted ascending, so the active program for
	// each summary date is found by a single merge pass: advance the
	// update cursor while the next update is still at or before the date.
	updated := 0
	cursor := -1
	for _, d := range summaryDates {
		for cursor+1 < len(updateDates) && updateDates[cursor+1] <= d {
			cursor++
		}
		if cursor < 0 {
			continue // no program was in effect yet
		}

		day, err := time.Parse(models.DateLayout, d)
		if err != nil {
			continue
		}
		targets, ok := lookup[programKey{updateDates[cursor], day.Weekday().String()}]
		if !ok {
			continue
		}

		ok, err = tx.UpdateTargets(d, targets.calories, targets.proteinG)
		if err != nil {
			return updated, err
		}
		if ok {
			updated++
		}
	}

	return updated, nil
}
