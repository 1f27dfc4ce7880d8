// ABOUTME: Export-type detection from worksheet header signatures.
// ABOUTME: Fixed priority order disambiguates summary from nutrition sheets.
package ingest

import (
	"fmt"

	"github.com/lberg/macrolog/internal/models"
)

// Signature headers characteristic of each export type. Summary and
// nutrition exports share Calories/Protein headers, so the summary-only
// markers must be checked first; the order below is load-bearing.
var detectionOrder = []struct {
	exportType models.ExportType
	signature  []string
}{
	{models.ExportSummary, []string{"Calorie Target", "Expenditure"}},
	{models.ExportWorkout, []string{"Exercise Name", "Reps", "Weight"}},
	{models.ExportWeight, []string{"Scale Weight", "Trend Weight"}},
	{models.ExportNutrition, []string{"Calories", "Protein", "Carbs", "Fat"}},
}

// DetectionError reports a header set that matches no known export type.
type DetectionError struct {
	Headers []string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("cannot detect export type from columns %v: expected a nutrition, workout, weight, or summary export", e.Headers)
}

// DetectExportType classifies a worksheet by its normalized headers,
// returning the first type whose signature set intersects them. It never
// silently defaults; an unrecognized header set is a *DetectionError.
func DetectExportType(headers []string) (models.ExportType, error) {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[h] = true
	}

	for _, cand := range detectionOrder {
		for _, sig := range cand.signature {
			if set[sig] {
				return cand.exportType, nil
			}
		}
	}

	return "", &DetectionError{Headers: headers}
}
