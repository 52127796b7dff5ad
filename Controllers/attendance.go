package Controllers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Traxovo/Logger"
	"Traxovo/Models"
	"Traxovo/Normalizer"
	"Traxovo/Reports"
	"Traxovo/Suite"
	"Traxovo/Zones"
)

// Multipart field names accepted on the reconcile endpoint, one per record
// type.
var uploadFields = []string{
	Normalizer.DrivingHistory,
	Normalizer.TimeOnSite,
	Normalizer.ActivityDetail,
	Normalizer.Timecard,
	Normalizer.Usage,
}

// AttendanceController runs reconciliations over uploaded exports and
// serves past runs.
type AttendanceController struct {
	DB        *gorm.DB
	OutputDir string
}

func NewAttendanceController(db *gorm.DB, outputDir string) *AttendanceController {
	return &AttendanceController{DB: db, OutputDir: outputDir}
}

// Reconcile accepts a multipart upload of one or more export files, runs
// the full pipeline against the current zone rules, persists the run and
// returns its summary.
func (a *AttendanceController) Reconcile(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Multipart form required"})
	}

	tmpDir, err := os.MkdirTemp("", "traxovo-run-")
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to stage uploads"})
	}
	defer os.RemoveAll(tmpDir)

	files := map[string]string{}
	for _, field := range uploadFields {
		uploads, ok := form.File[field]
		if !ok || len(uploads) == 0 {
			continue
		}
		path, err := saveUpload(ctx, uploads[0], tmpDir, field)
		if err != nil {
			Logger.Log.Errorw("upload staging failed", "field", field, "error", err)
			continue
		}
		files[field] = path
	}
	if len(files) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("No export files provided; expected one of %v", uploadFields),
		})
	}

	out, err := Suite.Run(Suite.RunRequest{
		Files:           files,
		ZoneConfigPath:  Zones.DefaultConfigPath,
		UseDefaultZones: ctx.FormValue("use_default_zones") == "true",
		FallbackZone:    ctx.FormValue("fallback_zone"),
		Roster:          Models.RosterNames(),
		OutputDir:       a.OutputDir,
	})
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	run, err := a.persistRun(out)
	if err != nil {
		Logger.Log.Errorw("run persistence failed", "run_id", out.RunID, "error", err)
	}

	return ctx.JSON(fiber.Map{
		"run_id":        out.RunID,
		"merged_days":   out.Stats.MergedDays,
		"statuses":      out.StatusCounts(),
		"discrepancies": len(out.Discrepancies),
		"skipped":       out.SkippedFiles,
		"saved":         run != nil,
	})
}

// ListRuns returns recent runs, newest first.
func (a *AttendanceController) ListRuns(ctx *fiber.Ctx) error {
	var runs []Models.ReconciliationRun
	if err := a.DB.Order("created_at desc").Limit(50).Find(&runs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch runs"})
	}
	return ctx.JSON(runs)
}

// GetRun returns one run's stored output.
func (a *AttendanceController) GetRun(ctx *fiber.Ctx) error {
	run, err := a.findRun(ctx.Params("run_id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Run not found"})
	}
	return ctx.Type("json").Send(run.Results)
}

// ExportRun streams the run's report workbook as a download.
func (a *AttendanceController) ExportRun(ctx *fiber.Ctx) error {
	run, err := a.findRun(ctx.Params("run_id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Run not found"})
	}

	var out Reports.RunOutput
	if err := json.Unmarshal(run.Results, &out); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Stored run is unreadable"})
	}

	buf, err := Reports.WorkbookBuffer(&out)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render workbook"})
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", out.GeneratedAt.Format("20060102_150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	return ctx.Send(buf.Bytes())
}

func (a *AttendanceController) findRun(runID string) (*Models.ReconciliationRun, error) {
	var run Models.ReconciliationRun
	if err := a.DB.Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (a *AttendanceController) persistRun(out *Reports.RunOutput) (*Models.ReconciliationRun, error) {
	results, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	stats, _ := json.Marshal(out.Stats)
	sources, _ := json.Marshal(out.SourceFiles)
	skipped, _ := json.Marshal(out.SkippedFiles)

	run := &Models.ReconciliationRun{
		RunID:        out.RunID,
		ZoneSource:   out.ZoneSource,
		SourceFiles:  sources,
		SkippedFiles: skipped,
		Stats:        stats,
		Results:      results,
		MergedDays:   out.Stats.MergedDays,
		Flagged:      len(out.Discrepancies),
	}
	if err := a.DB.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func saveUpload(ctx *fiber.Ctx, file *multipart.FileHeader, dir, field string) (string, error) {
	ext := filepath.Ext(file.Filename)
	path := filepath.Join(dir, fmt.Sprintf("%s_%d%s", field, time.Now().UnixNano(), ext))
	if err := ctx.SaveFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}
