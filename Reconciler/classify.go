package Reconciler

import (
	"sort"
	"strings"
	"time"

	"Traxovo/Zones"
)

// Report statuses. Each merged driver-day lands on exactly one sheet.
const (
	StatusOnTime   = "On Time"
	StatusLate     = "Late"
	StatusEarlyEnd = "Early End"
	StatusNotOnJob = "Not On Job"
)

// ClassifiedDay is a merged day with its zone verdict attached, ready for
// reporting.
type ClassifiedDay struct {
	MergedDriverDay
	ZoneID     string                 `json:"zone_id"`
	Status     string                 `json:"status"`
	Validation Zones.ValidationResult `json:"validation"`
}

// Classify assigns a status to every merged day against the zone rules.
// Zone selection is per day: a location naming a configured zone wins,
// otherwise fallbackZone applies. Days with no GPS-backed presence, or whose
// check-in falls outside the zone window, go to Not On Job.
func Classify(cfg *Zones.Config, result *Result, fallbackZone string) []ClassifiedDay {
	out := make([]ClassifiedDay, 0, len(result.Merged))
	for _, day := range result.Merged {
		cd := ClassifiedDay{MergedDriverDay: day, Status: StatusNotOnJob}
		cd.ZoneID = matchZone(cfg, day.Locations, fallbackZone)

		if !dayHasGPS(day) || day.StartTime == "" || cd.ZoneID == "" {
			out = append(out, cd)
			continue
		}

		start, err := time.Parse("2006-01-02 15:04:05", day.StartTime)
		if err != nil {
			out = append(out, cd)
			continue
		}

		vr, err := cfg.ValidateAttendance(cd.ZoneID, start, nil)
		if err != nil {
			out = append(out, cd)
			continue
		}
		cd.Validation = vr

		switch {
		case !vr.Valid:
			cd.Status = StatusNotOnJob
		case vr.IsLate:
			cd.Status = StatusLate
		case endedEarly(cfg, cd.ZoneID, day):
			cd.Status = StatusEarlyEnd
		default:
			cd.Status = StatusOnTime
		}
		out = append(out, cd)
	}
	return out
}

// endedEarly reports whether the day's last known activity precedes the
// zone's scheduled end.
func endedEarly(cfg *Zones.Config, zoneID string, day MergedDriverDay) bool {
	if day.EndTime == "" {
		return false
	}
	end, err := time.Parse("2006-01-02 15:04:05", day.EndTime)
	if err != nil {
		return false
	}
	schedEnd, ok := cfg.ScheduleEnd(zoneID, end)
	if !ok {
		return false
	}
	return end.Before(schedEnd)
}

// matchZone picks the zone a day belongs to by looking for the zone id or
// name inside the day's location strings. Zone ids are walked in sorted
// order so the choice is stable.
func matchZone(cfg *Zones.Config, locations []string, fallback string) string {
	ids := make([]string, 0, len(cfg.Zones))
	for id := range cfg.Zones {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		zone := cfg.Zones[id]
		for _, loc := range locations {
			lower := strings.ToLower(loc)
			if strings.Contains(lower, strings.ToLower(id)) {
				return id
			}
			if zone.ZoneName != "" && strings.Contains(lower, strings.ToLower(zone.ZoneName)) {
				return id
			}
		}
	}
	if _, ok := cfg.Zones[fallback]; ok {
		return fallback
	}
	return ""
}
