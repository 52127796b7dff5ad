package Zones

import (
	"fmt"
	"strconv"
	"strings"

	"Traxovo/Logger"
	"Traxovo/Parser"
)

// pmColumns maps the headers PM-maintained sheets use onto the handful of
// fields a zone row needs. Matching is by lower-cased substring since every
// PM formats the sheet differently.
var pmColumns = []struct {
	Field     string
	Fragments []string
}{
	{"zone_id", []string{"zone", "id"}},
	{"zone_id", []string{"zone", "#"}},
	{"zone_id", []string{"zone"}},
	{"zone_name", []string{"name"}},
	{"zone_name", []string{"description"}},
	{"sr_pm", []string{"pm"}},
	{"sr_pm", []string{"manager"}},
	{"start", []string{"start"}},
	{"end", []string{"end"}},
	{"days", []string{"day"}},
	{"late", []string{"late", "threshold"}},
	{"late", []string{"grace"}},
}

var dayNames = map[string]string{
	"mon": "Monday", "tue": "Tuesday", "wed": "Wednesday", "thu": "Thursday",
	"fri": "Friday", "sat": "Saturday", "sun": "Sunday",
}

// ProcessPMSheet turns a parsed PM schedule sheet into a zone rules
// document. Rows without a recognizable zone id are skipped and counted;
// fields the sheet does not carry take the default-schedule values.
func ProcessPMSheet(t *Parser.Table, source string) (*Config, error) {
	if t.Empty() {
		return nil, fmt.Errorf("pm sheet %q has no rows", source)
	}

	fields := resolvePMColumns(t.Headers)
	if _, ok := fields["zone_id"]; !ok {
		return nil, fmt.Errorf("pm sheet %q has no zone column (headers: %s)",
			source, strings.Join(t.Headers, ", "))
	}

	base := DefaultConfig().Zones["Z100"]
	cfg := &Config{Version: "1.0", Source: source, Zones: map[string]*Zone{}}

	skipped := 0
	for _, row := range t.Rows {
		id := strings.TrimSpace(row[fields["zone_id"]])
		if id == "" {
			skipped++
			continue
		}

		zone := &Zone{
			ZoneID:   id,
			ZoneName: valueOr(row, fields, "zone_name", id),
			SrPM:     valueOr(row, fields, "sr_pm", "Unassigned"),
			Schedule: base.Schedule,
			Rules:    base.Rules,
		}

		if v := valueOr(row, fields, "start", ""); v != "" {
			if c, err := ParseClock(v); err == nil {
				zone.Schedule.StartTime = c.Format("15:04")
			}
		}
		if v := valueOr(row, fields, "end", ""); v != "" {
			if c, err := ParseClock(v); err == nil {
				zone.Schedule.EndTime = c.Format("15:04")
			}
		}
		if v := valueOr(row, fields, "days", ""); v != "" {
			if days := parseWorkingDays(v); len(days) > 0 {
				zone.Schedule.WorkingDays = days
			}
		}
		if v := valueOr(row, fields, "late", ""); v != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
				zone.Schedule.LateThresholdMinutes = n
			}
		}

		cfg.Zones[id] = zone
	}

	if len(cfg.Zones) == 0 {
		return nil, fmt.Errorf("pm sheet %q yielded no zones (%d rows skipped)", source, skipped)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Logger.Log.Infow("processed pm sheet", "source", source, "zones", len(cfg.Zones), "skipped_rows", skipped)
	return cfg, nil
}

func resolvePMColumns(headers []string) map[string]string {
	resolved := make(map[string]string)
	taken := make(map[string]bool)
	for _, rule := range pmColumns {
		if _, done := resolved[rule.Field]; done {
			continue
		}
		for _, h := range headers {
			if taken[h] {
				continue
			}
			lower := strings.ToLower(h)
			all := true
			for _, frag := range rule.Fragments {
				if !strings.Contains(lower, frag) {
					all = false
					break
				}
			}
			if all {
				resolved[rule.Field] = h
				taken[h] = true
				break
			}
		}
	}
	return resolved
}

func valueOr(row map[string]string, fields map[string]string, key, fallback string) string {
	if col, ok := fields[key]; ok {
		if v := strings.TrimSpace(row[col]); v != "" {
			return v
		}
	}
	return fallback
}

// parseWorkingDays accepts "Mon-Fri", "Mon,Wed,Fri" and full day names.
func parseWorkingDays(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	ordered := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if parts := strings.SplitN(s, "-", 2); len(parts) == 2 {
		from := canonicalDay(parts[0])
		to := canonicalDay(parts[1])
		if from != "" && to != "" {
			var days []string
			collecting := false
			for _, d := range ordered {
				if d == from {
					collecting = true
				}
				if collecting {
					days = append(days, d)
				}
				if d == to {
					break
				}
			}
			return days
		}
	}

	var days []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == ' ' }) {
		if d := canonicalDay(part); d != "" && !contains(days, d) {
			days = append(days, d)
		}
	}
	return days
}

func canonicalDay(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return ""
	}
	return dayNames[s[:3]]
}
