package Zones

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	english "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"Traxovo/Logger"
)

// DefaultConfigPath is where the processed zone rules document lives.
const DefaultConfigPath = "config/zone_schedule_rules.json"

// Config is the zone rules document. It is produced from a PM-supplied
// sheet (or the explicit defaults) and read back on every run.
type Config struct {
	Version     string           `json:"version" validate:"required"`
	LastUpdated string           `json:"last_updated"`
	Source      string           `json:"source"`
	Zones       map[string]*Zone `json:"zones" validate:"required,dive"`
}

type Zone struct {
	ZoneID   string          `json:"zone_id" validate:"required"`
	ZoneName string          `json:"zone_name"`
	SrPM     string          `json:"sr_pm"`
	Schedule Schedule        `json:"schedule" validate:"required"`
	Rules    AttendanceRules `json:"attendance_rules"`
}

type Schedule struct {
	StartTime            string   `json:"start_time" validate:"required,datetime=15:04"`
	EndTime              string   `json:"end_time" validate:"required,datetime=15:04"`
	LateThresholdMinutes int      `json:"late_threshold_minutes" validate:"min=0"`
	WorkingDays          []string `json:"working_days" validate:"required,min=1,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
}

type AttendanceRules struct {
	AllowEarlyStart        bool    `json:"allow_early_start"`
	EarlyStartLimitMinutes int     `json:"early_start_limit_minutes" validate:"min=0"`
	AllowLateEnd           bool    `json:"allow_late_end"`
	LateEndLimitMinutes    int     `json:"late_end_limit_minutes" validate:"min=0"`
	RequireGPSValidation   bool    `json:"require_gps_validation"`
	MinWorkHours           float64 `json:"min_work_hours" validate:"min=0"`
}

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()
	en := english.New()
	uni := ut.New(en, en)
	translator, _ = uni.GetTranslator("en")
	if err := entrans.RegisterDefaultTranslations(validate, translator); err != nil {
		Logger.Log.Warnw("validator translations unavailable", "error", err)
	}
}

// LoadConfig reads and validates a zone rules document. A missing file is an
// error: defaults are never synthesized implicitly, callers that want them
// must ask for DefaultConfig themselves.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("zone config %s: %w", path, err)
	}

	// json5 so hand-annotated config files (PM comments, trailing commas)
	// still load.
	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("zone config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the document against the schema plus the schedule
// invariants that tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fe.Translate(translator))
			}
			return fmt.Errorf("invalid zone config: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	for id, zone := range c.Zones {
		start, err1 := ParseClock(zone.Schedule.StartTime)
		end, err2 := ParseClock(zone.Schedule.EndTime)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("zone %s: unparseable schedule times", id)
		}
		// Overnight shifts are not representable; a window must open and
		// close within one day.
		if !start.Before(end) {
			return fmt.Errorf("zone %s: start_time %s must precede end_time %s",
				id, zone.Schedule.StartTime, zone.Schedule.EndTime)
		}
	}
	return nil
}

// SaveConfig writes the document as plain JSON, stamping last_updated.
func SaveConfig(cfg *Config, path string) error {
	cfg.LastUpdated = time.Now().Format(time.RFC3339)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if dir := dirOf(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write zone config: %w", err)
	}
	Logger.Log.Infow("zone config saved", "path", path, "zones", len(cfg.Zones))
	return nil
}

// ParseClock parses an HH:MM wall-clock string (24h, with a 12h fallback for
// sheets that use "6:00 AM").
func ParseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized clock time %q", s)
}

func dirOf(path string) string {
	idx := strings.LastIndexAny(path, "/\\")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}
