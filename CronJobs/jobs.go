package CronJobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"

	"Traxovo/Logger"
	"Traxovo/Models"
	"Traxovo/Normalizer"
	"Traxovo/Reports"
	"Traxovo/Suite"
	"Traxovo/Zones"
	"Traxovo/email"
)

// Filename fragments used to assign dropped-off export files to a record
// type when the nightly job scans the watch directory.
var watchHints = map[string][]string{
	Normalizer.DrivingHistory: {"driving", "drive_history"},
	Normalizer.TimeOnSite:     {"time_on_site", "onsite", "time-on-site"},
	Normalizer.ActivityDetail: {"activity"},
	Normalizer.Timecard:       {"timecard", "time_card", "punch"},
	Normalizer.Usage:          {"usage", "utilization"},
}

// ReportScheduler runs the reconciliation pipeline on a schedule against
// export files dropped into a watch directory.
type ReportScheduler struct {
	cronScheduler  *cron.Cron
	watchDir       string
	outputDir      string
	recipients     []string
	runImmediately bool
	jobID          cron.EntryID
}

// NewReportScheduler creates a scheduler over the given watch and output
// directories. Recipients may be empty, which skips email delivery.
func NewReportScheduler(watchDir, outputDir string, recipients []string, runImmediately bool) *ReportScheduler {
	return &ReportScheduler{
		cronScheduler:  cron.New(cron.WithSeconds()),
		watchDir:       watchDir,
		outputDir:      outputDir,
		recipients:     recipients,
		runImmediately: runImmediately,
	}
}

// Start schedules the nightly run at 05:30, before the morning shift
// reviews yesterday's attendance.
func (s *ReportScheduler) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 30 5 * * *", func() {
		Logger.Log.Infow("running scheduled attendance reconciliation")
		s.runReconciliation()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	Logger.Log.Infow("report scheduler started", "watch_dir", s.watchDir)

	if s.runImmediately {
		s.runReconciliation()
	}
	return nil
}

// Stop terminates the scheduler.
func (s *ReportScheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		Logger.Log.Infow("report scheduler stopped")
	}
}

// UpdateSchedule changes the cron expression.
// Format: "0 30 5 * * *" = at 05:30:00 every day.
func (s *ReportScheduler) UpdateSchedule(schedule string) error {
	s.cronScheduler.Remove(s.jobID)

	var err error
	s.jobID, err = s.cronScheduler.AddFunc(schedule, func() {
		Logger.Log.Infow("running scheduled attendance reconciliation")
		s.runReconciliation()
	})
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	Logger.Log.Infow("report schedule updated", "schedule", schedule)
	return nil
}

// RunManualCheck executes a reconciliation outside the schedule.
func (s *ReportScheduler) RunManualCheck() {
	Logger.Log.Infow("running manual attendance reconciliation")
	s.runReconciliation()
}

func (s *ReportScheduler) runReconciliation() {
	files, err := s.scanWatchDir()
	if err != nil {
		Logger.Log.Errorw("watch directory scan failed", "dir", s.watchDir, "error", err)
		return
	}
	if len(files) == 0 {
		Logger.Log.Infow("no export files in watch directory, skipping run", "dir", s.watchDir)
		return
	}

	out, err := Suite.Run(Suite.RunRequest{
		Files:          files,
		ZoneConfigPath: Zones.DefaultConfigPath,
		Roster:         Models.RosterNames(),
		OutputDir:      s.outputDir,
	})
	if err != nil {
		Logger.Log.Errorw("scheduled reconciliation failed", "error", err)
		return
	}
	Logger.Log.Infow("scheduled reconciliation complete",
		"run_id", out.RunID,
		"merged_days", out.Stats.MergedDays,
		"discrepancies", len(out.Discrepancies))

	s.archiveInputs(files)
	s.notify(out)
}

// scanWatchDir assigns each file in the watch directory to at most one
// record type by filename hints. Later files of the same type win.
func (s *ReportScheduler) scanWatchDir() (map[string]string, error) {
	entries, err := os.ReadDir(s.watchDir)
	if err != nil {
		return nil, err
	}

	files := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		ext := filepath.Ext(name)
		if ext != ".csv" && ext != ".xlsx" && ext != ".xls" && ext != ".txt" {
			continue
		}
		for recordType, hints := range watchHints {
			for _, hint := range hints {
				if strings.Contains(name, hint) {
					files[recordType] = filepath.Join(s.watchDir, entry.Name())
				}
			}
		}
	}
	return files, nil
}

// archiveInputs moves consumed exports aside so the next run does not
// reprocess them.
func (s *ReportScheduler) archiveInputs(files map[string]string) {
	archiveDir := filepath.Join(s.watchDir, "processed")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		Logger.Log.Warnw("cannot create archive directory", "dir", archiveDir, "error", err)
		return
	}
	for _, path := range files {
		dest := filepath.Join(archiveDir, filepath.Base(path))
		if err := os.Rename(path, dest); err != nil {
			Logger.Log.Warnw("failed to archive input", "file", path, "error", err)
		}
	}
}

func (s *ReportScheduler) notify(out *Reports.RunOutput) {
	if len(s.recipients) == 0 {
		return
	}
	config, ok := email.ConfigFromEnv()
	if !ok {
		Logger.Log.Warnw("recipients configured but SMTP_SERVER is not set, skipping email")
		return
	}
	msg := email.RunSummaryMessage(out, s.recipients)
	if err := email.Send(config, msg); err != nil {
		Logger.Log.Errorw("report email delivery failed", "error", err)
		return
	}
	Logger.Log.Infow("report email sent", "recipients", len(s.recipients))
}
