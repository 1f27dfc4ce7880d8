// ABOUTME: ExportType enum for the four recognized spreadsheet export kinds.
// ABOUTME: Bulk is a workbook-level classification, not a sheet type.
package models

// ExportType identifies which canonical table a worksheet's rows belong to.
type ExportType string

const (
	ExportNutrition ExportType = "nutrition"
	ExportWorkout   ExportType = "workout"
	ExportWeight    ExportType = "weight"
	ExportSummary   ExportType = "summary"

	// ExportBulk marks a multi-sheet full-history workbook. It is never
	// returned by header detection; it is assigned at the workbook level.
	ExportBulk ExportType = "bulk"
)

// AllExportTypes lists the types a single worksheet can be detected as.
var AllExportTypes = []ExportType{
	ExportNutrition, ExportWorkout, ExportWeight, ExportSummary,
}

// IsValidExportType checks if a string names a detectable export type.
func IsValidExportType(s string) bool {
	for _, et := range AllExportTypes {
		if string(et) == s {
			return true
		}
	}
	return false
}
