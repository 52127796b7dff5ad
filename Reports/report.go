package Reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"Traxovo/Logger"
	"Traxovo/Reconciler"
)

// RunOutput bundles everything one reconciliation run produced, in the shape
// the writers and the API both consume.
type RunOutput struct {
	RunID        string                     `json:"run_id"`
	GeneratedAt  time.Time                  `json:"generated_at"`
	ZoneSource   string                     `json:"zone_config_source"`
	FallbackZone string                     `json:"fallback_zone,omitempty"`
	SourceFiles  map[string]string          `json:"source_files"`
	SkippedFiles map[string]string          `json:"skipped_files,omitempty"`
	Stats        Reconciler.Stats           `json:"stats"`
	Days         []Reconciler.ClassifiedDay `json:"days"`
	Discrepancies []Reconciler.Discrepancy  `json:"discrepancies"`
}

// StatusCounts tallies days per report status.
func (o *RunOutput) StatusCounts() map[string]int {
	counts := map[string]int{}
	for _, day := range o.Days {
		counts[day.Status]++
	}
	return counts
}

// WriteJSON writes the full run output as an indented JSON document.
func WriteJSON(path string, out *RunOutput) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	Logger.Log.Infow("run JSON written", "path", path, "days", len(out.Days))
	return nil
}
