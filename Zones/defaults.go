package Zones

import "time"

// DefaultConfig returns the stock three-zone ruleset used when no PM sheet
// has been processed yet. It is only ever handed out explicitly — loading a
// missing config file fails instead of falling back here, so a default
// ruleset in production is always an auditable decision.
func DefaultConfig() *Config {
	schedule := Schedule{
		StartTime:            "06:00",
		EndTime:              "14:30",
		LateThresholdMinutes: 15,
		WorkingDays:          []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
	}
	rules := AttendanceRules{
		AllowEarlyStart:        true,
		EarlyStartLimitMinutes: 30,
		AllowLateEnd:           true,
		LateEndLimitMinutes:    60,
		RequireGPSValidation:   false,
		MinWorkHours:           8,
	}

	cfg := &Config{
		Version:     "1.0",
		LastUpdated: time.Now().Format(time.RFC3339),
		Source:      "defaults",
		Zones:       map[string]*Zone{},
	}
	for _, z := range []struct{ id, name string }{
		{"Z100", "North Ramp"},
		{"Z200", "South Ramp"},
		{"Z300", "Laydown Yard"},
	} {
		cfg.Zones[z.id] = &Zone{
			ZoneID:   z.id,
			ZoneName: z.name,
			SrPM:     "Unassigned",
			Schedule: schedule,
			Rules:    rules,
		}
	}
	return cfg
}
