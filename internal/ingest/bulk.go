// ABOUTME: Multi-sheet (full-history) workbook decomposition.
// ABOUTME: Each sheet is independently fault-tolerant; failures log and skip.
package ingest

import (
	"sort"
	"time"

	"github.com/lberg/macrolog/internal/models"
	"github.com/lberg/macrolog/internal/storage"
	"github.com/xuri/excelize/v2"
)

// Sheet names that identify a bulk (all-time) export workbook.
const (
	sheetMacros      = "Calories & Macros"
	sheetScaleWeight = "Scale Weight"
	sheetWeightTrend = "Weight Trend"
	sheetExpenditure = "Expenditure"
	sheetProgram     = "Nutrition Program Settings"
)

var bulkSheetNames = []string{
	sheetMacros, sheetScaleWeight, sheetWeightTrend, sheetExpenditure, sheetProgram,
}

// isBulkWorkbook reports whether any known bulk sheet name is present.
func isBulkWorkbook(sheetNames []string) bool {
	for _, name := range sheetNames {
		for _, bulk := range bulkSheetNames {
			if name == bulk {
				return true
			}
		}
	}
	return false
}

// ingestBulk decomposes a bulk workbook into per-domain datasets and
// writes them through the transaction. A missing or malformed sheet
// contributes zero rows instead of aborting the import. The returned
// breakdown maps domain to row count; its sum is the import total.
func (imp *Importer) ingestBulk(f *excelize.File, tx *storage.Tx, source string, now time.Time) (map[string]int, error) {
	breakdown := map[string]int{}

	// Calories & Macros -> daily_summary via the standard summary preparer.
	if macros, err := readSheet(f, sheetMacros); err != nil {
		imp.log.Warn("skipping sheet", "sheet", sheetMacros, "err", err)
	} else if len(macros.Rows) > 0 {
		n, err := tx.UpsertSummaries(prepareSummaries(macros, source, now))
		if err != nil {
			return breakdown, err
		}
		breakdown["summary"] = n
	}

	// Scale Weight + Weight Trend -> weight_log, outer-joined on date.
	obs, err := imp.mergeWeightSheets(f, source, now)
	if err != nil {
		return breakdown, err
	}
	if len(obs) > 0 {
		n, err := tx.UpsertWeights(obs)
		if err != nil {
			return breakdown, err
		}
		breakdown["weight"] = n
	}

	// Expenditure -> update existing daily_summary rows, never insert.
	if exp, err := readSheet(f, sheetExpenditure); err != nil {
		imp.log.Warn("skipping sheet", "sheet", sheetExpenditure, "err", err)
	} else {
		n, err := imp.applyExpenditure(tx, exp)
		if err != nil {
			return breakdown, err
		}
		if n > 0 {
			breakdown["expenditure_updates"] = n
		}
	}

	// Nutrition Program Settings -> historical target resolution.
	if program, err := readSheet(f, sheetProgram); err != nil {
		imp.log.Warn("skipping sheet", "sheet", sheetProgram, "err", err)
	} else if len(program.Rows) > 0 {
		n, err := imp.applyTargets(tx, program)
		if err != nil {
			return breakdown, err
		}
		breakdown["target_updates"] = n
	}

	return breakdown, nil
}

// mergeWeightSheets outer-joins the scale and trend sheets on date, so a
// date present in only one source still yields an observation with the
// other field nil.
func (imp *Importer) mergeWeightSheets(f *excelize.File, source string, now time.Time) ([]models.WeightObservation, error) {
	scale, err := readSheet(f, sheetScaleWeight)
	if err != nil {
		imp.log.Warn("skipping sheet", "sheet", sheetScaleWeight, "err", err)
		scale = &Sheet{Name: sheetScaleWeight}
	} else if scale.HasHeader("Weight") && !scale.HasHeader("Scale Weight") {
		// The bulk export names the column "Weight (kg)".
		scale.RenameHeader("Weight", "Scale Weight")
	}

	trend, err := readSheet(f, sheetWeightTrend)
	if err != nil {
		imp.log.Warn("skipping sheet", "sheet", sheetWeightTrend, "err", err)
		trend = &Sheet{Name: sheetWeightTrend}
	} else if !trend.HasHeader("Trend Weight") {
		// The sole non-date column carries the trend value.
		for _, h := range trend.Headers {
			if h != "Date" && h != "" {
				trend.RenameHeader(h, "Trend Weight")
				break
			}
		}
	}

	byDate := map[string]*models.WeightObservation{}
	at := func(date string) *models.WeightObservation {
		if o, ok := byDate[date]; ok {
			return o
		}
		o := &models.WeightObservation{Date: date, Source: source, ImportedAt: now}
		byDate[date] = o
		return o
	}

	for _, o := range prepareWeights(scale, source, now) {
		at(o.Date).ScaleWeightKg = o.ScaleWeightKg
	}
	for _, o := range prepareWeights(trend, source, now) {
		at(o.Date).TrendWeightKg = o.TrendWeightKg
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	obs := make([]models.WeightObservation, 0, len(dates))
	for _, d := range dates {
		obs = append(obs, *byDate[d])
	}
	return obs, nil
}

// applyExpenditure writes expenditure_kcal onto existing summary rows by
// date, counting the rows actually updated.
func (imp *Importer) applyExpenditure(tx *storage.Tx, s *Sheet) (int, error) {
	updated := 0
	for _, row := range s.Rows {
		date, err := parseDate(row["Date"])
		if err != nil {
			continue
		}
		kcal, ok := parseFloat(row["Expenditure"])
		if !ok {
			continue
		}
		applied, err := tx.UpdateExpenditure(date.Format(models.DateLayout), kcal)
		if err != nil {
			return updated, err
		}
		if applied {
			updated++
		}
	}
	return updated, nil
}
