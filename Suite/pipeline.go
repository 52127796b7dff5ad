package Suite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"Traxovo/Logger"
	"Traxovo/Normalizer"
	"Traxovo/Parser"
	"Traxovo/Reconciler"
	"Traxovo/Reports"
	"Traxovo/Zones"
)

// RunRequest describes one reconciliation run: which export files feed it,
// which zone rules apply, and where outputs land.
type RunRequest struct {
	// Files maps record type tags (Normalizer constants) to file paths.
	Files map[string]string
	// ZoneConfigPath is the rules document; required unless UseDefaultZones.
	ZoneConfigPath string
	// UseDefaultZones opts into the stock ruleset explicitly. Never implied.
	UseDefaultZones bool
	FallbackZone    string
	Roster          []string
	OutputDir       string
}

// ingestOrder keeps runs deterministic regardless of map iteration.
var ingestOrder = []string{
	Normalizer.Timecard,
	Normalizer.DrivingHistory,
	Normalizer.TimeOnSite,
	Normalizer.ActivityDetail,
	Normalizer.Usage,
}

// Run executes the full pipeline: ingest each export, validate its detected
// layout, merge, classify against zone rules, and write the JSON, workbook
// and manifest outputs. Per-file failures skip that source and the run
// continues with whatever parsed — the partial-result policy of the whole
// suite.
func Run(req RunRequest) (*Reports.RunOutput, error) {
	cfg, zoneSource, err := loadZones(req)
	if err != nil {
		return nil, err
	}

	out := &Reports.RunOutput{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now(),
		ZoneSource:   zoneSource,
		FallbackZone: req.FallbackZone,
		SourceFiles:  map[string]string{},
		SkippedFiles: map[string]string{},
	}

	var sources []Reconciler.Source
	for _, recordType := range ingestOrder {
		path, ok := req.Files[recordType]
		if !ok {
			continue
		}

		table, layout, err := Parser.ReadTable(path)
		if err != nil {
			Logger.Log.Errorw("source unreadable, skipping", "source", recordType, "file", path, "error", err)
			out.SkippedFiles[recordType] = err.Error()
			continue
		}
		if err := Normalizer.CheckLayout(recordType, table.Headers); err != nil {
			// Detected boundaries do not fit the schema; refusing beats
			// reconciling against garbage.
			Logger.Log.Errorw("layout validation failed, skipping source",
				"source", recordType, "file", path, "header_row", layout.HeaderRow, "error", err)
			out.SkippedFiles[recordType] = err.Error()
			continue
		}

		out.SourceFiles[recordType] = path
		sources = append(sources, Reconciler.Source{Type: recordType, Table: table})
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no usable sources in run (%d skipped)", len(out.SkippedFiles))
	}

	result := Reconciler.Combine(req.Roster, sources...)
	out.Stats = result.Stats
	out.Discrepancies = result.Discrepancies
	out.Days = Reconciler.Classify(cfg, result, req.FallbackZone)

	if req.OutputDir != "" {
		if err := writeOutputs(req.OutputDir, out); err != nil {
			return out, err
		}
	}
	return out, nil
}

func loadZones(req RunRequest) (*Zones.Config, string, error) {
	if req.UseDefaultZones {
		Logger.Log.Infow("using default zone rules by explicit request")
		return Zones.DefaultConfig(), "defaults", nil
	}
	path := req.ZoneConfigPath
	if path == "" {
		path = Zones.DefaultConfigPath
	}
	cfg, err := Zones.LoadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("zone rules unavailable (pass UseDefaultZones to opt into defaults): %w", err)
	}
	return cfg, path, nil
}

func writeOutputs(dir string, out *Reports.RunOutput) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	stamp := out.GeneratedAt.Format("20060102_150405")
	base := fmt.Sprintf("attendance_%s", stamp)

	if err := Reports.WriteJSON(filepath.Join(dir, base+".json"), out); err != nil {
		return err
	}
	if err := Reports.WriteWorkbook(filepath.Join(dir, base+".xlsx"), out); err != nil {
		return err
	}
	return Reports.WriteManifest(filepath.Join(dir, base+"_trace.txt"), out)
}
