package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReconciliationRun persists one pipeline execution: enough to list runs,
// re-serve their results, and audit what went in.
type ReconciliationRun struct {
	gorm.Model
	RunID        string         `json:"run_id" gorm:"uniqueIndex"`
	ZoneSource   string         `json:"zone_source"`
	SourceFiles  datatypes.JSON `json:"source_files"`
	SkippedFiles datatypes.JSON `json:"skipped_files"`
	Stats        datatypes.JSON `json:"stats"`
	Results      datatypes.JSON `json:"results"`
	MergedDays   int            `json:"merged_days"`
	Flagged      int            `json:"flagged"`
	ReportPath   string         `json:"report_path"`
}
