package Zones

import (
	"fmt"
	"time"
)

// Coordinates is a GPS fix accompanying a check-in. Accepted by
// ValidateAttendance for interface compatibility with the geofence data the
// zone circles imply, but not yet checked against any zone geometry.
// TODO(geofence): decide whether zone center/radius validation ships; the
// data model supports it, the rules do not reference it yet.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidationResult is the verdict for one (zone, timestamp) pair.
type ValidationResult struct {
	ZoneID      string `json:"zone_id"`
	Valid       bool   `json:"valid"`
	IsLate      bool   `json:"is_late"`
	LateMinutes int    `json:"late_minutes"`
	Reason      string `json:"reason,omitempty"`
}

// ValidateAttendance classifies a check-in time against a zone's schedule:
// working-day gate first, then the allowed early/late window, then lateness
// against the threshold.
func (c *Config) ValidateAttendance(zoneID string, checkTime time.Time, gps *Coordinates) (ValidationResult, error) {
	zone, ok := c.Zones[zoneID]
	if !ok {
		return ValidationResult{}, fmt.Errorf("unknown zone %q", zoneID)
	}
	_ = gps // accepted but not evaluated, see Coordinates

	result := ValidationResult{ZoneID: zoneID}

	weekday := checkTime.Weekday().String()
	if !contains(zone.Schedule.WorkingDays, weekday) {
		result.Reason = fmt.Sprintf("%s is not a working day for zone %s", weekday, zoneID)
		return result, nil
	}

	start, err := zone.scheduleAt(checkTime, zone.Schedule.StartTime)
	if err != nil {
		return result, err
	}
	end, err := zone.scheduleAt(checkTime, zone.Schedule.EndTime)
	if err != nil {
		return result, err
	}

	earliest := start
	if zone.Rules.AllowEarlyStart {
		earliest = start.Add(-time.Duration(zone.Rules.EarlyStartLimitMinutes) * time.Minute)
	}
	latest := end
	if zone.Rules.AllowLateEnd {
		latest = end.Add(time.Duration(zone.Rules.LateEndLimitMinutes) * time.Minute)
	}

	if checkTime.Before(earliest) || checkTime.After(latest) {
		result.Reason = fmt.Sprintf("check-in %s outside allowed window %s-%s",
			checkTime.Format("15:04"), earliest.Format("15:04"), latest.Format("15:04"))
		return result, nil
	}

	result.Valid = true
	threshold := start.Add(time.Duration(zone.Schedule.LateThresholdMinutes) * time.Minute)
	if checkTime.After(threshold) {
		result.IsLate = true
		result.LateMinutes = int(checkTime.Sub(start).Minutes())
	}
	return result, nil
}

// ScheduleEnd returns the zone's scheduled end on the given day.
func (c *Config) ScheduleEnd(zoneID string, day time.Time) (time.Time, bool) {
	zone, ok := c.Zones[zoneID]
	if !ok {
		return time.Time{}, false
	}
	end, err := zone.scheduleAt(day, zone.Schedule.EndTime)
	if err != nil {
		return time.Time{}, false
	}
	return end, true
}

// scheduleAt anchors an HH:MM wall-clock string to the date of t.
func (z *Zone) scheduleAt(t time.Time, clock string) (time.Time, error) {
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("zone %s: %w", z.ZoneID, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour(), c.Minute(), 0, 0, t.Location()), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
