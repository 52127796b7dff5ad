package Reconciler

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"Traxovo/Normalizer"
)

// Discrepancy types.
const (
	TimecardWithoutGPS = "timecard_without_gps"
	GPSWithoutTimecard = "gps_without_timecard"
)

// Discrepancy flags a driver-day where the payroll and GPS views of the
// fleet disagree about whether someone was on site.
type Discrepancy struct {
	DriverKey  string `json:"driver_key"`
	DriverName string `json:"driver_name"`
	Date       string `json:"date"`
	Type       string `json:"type"`
	Detail     string `json:"detail"`
}

var gpsSources = []string{
	Normalizer.DrivingHistory,
	Normalizer.TimeOnSite,
	Normalizer.ActivityDetail,
}

// findDiscrepancies cross-references each merged day against the sources
// that were actually supplied to the run. A missing timecard only counts as
// a discrepancy when timecards were part of the run at all, and likewise for
// GPS data.
func findDiscrepancies(result *Result) []Discrepancy {
	timecardProvided := slices.Contains(result.providedSources, Normalizer.Timecard)
	gpsProvided := false
	for _, s := range gpsSources {
		if slices.Contains(result.providedSources, s) {
			gpsProvided = true
			break
		}
	}
	if !timecardProvided || !gpsProvided {
		return nil
	}

	var flags []Discrepancy
	for _, day := range result.Merged {
		hasTimecard := slices.Contains(day.Sources, Normalizer.Timecard)
		hasGPS := dayHasGPS(day)

		switch {
		case hasTimecard && !hasGPS:
			flags = append(flags, Discrepancy{
				DriverKey:  day.DriverKey,
				DriverName: day.DriverName,
				Date:       day.Date,
				Type:       TimecardWithoutGPS,
				Detail: fmt.Sprintf("timecard hours recorded for %s but no GPS activity found",
					day.Date),
			})
		case hasGPS && !hasTimecard:
			flags = append(flags, Discrepancy{
				DriverKey:  day.DriverKey,
				DriverName: day.DriverName,
				Date:       day.Date,
				Type:       GPSWithoutTimecard,
				Detail: fmt.Sprintf("GPS activity (%s) on %s with no matching timecard entry",
					strings.Join(day.Sources, ", "), day.Date),
			})
		}
	}
	return flags
}

func dayHasGPS(day MergedDriverDay) bool {
	for _, s := range gpsSources {
		if slices.Contains(day.Sources, s) {
			return true
		}
	}
	return false
}
