package Reconciler

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"Traxovo/Logger"
	"Traxovo/Normalizer"
	"Traxovo/Parser"
)

// sourcePriority fixes field precedence when multiple sources describe the
// same driver-day: payroll data is authoritative, then GPS history, then the
// derived reports. Merging always walks records in this order (then by
// timestamp) so results do not depend on input ordering.
var sourcePriority = map[string]int{
	Normalizer.Timecard:       0,
	Normalizer.DrivingHistory: 1,
	Normalizer.TimeOnSite:     2,
	Normalizer.ActivityDetail: 3,
	Normalizer.Usage:          4,
}

// MergedDriverDay aggregates every normalized record for one driver on one
// day across all sources.
type MergedDriverDay struct {
	DriverKey  string            `json:"driver_key"`
	DriverName string            `json:"driver_name"`
	Date       string            `json:"date"`
	StartTime  string            `json:"start_time,omitempty"`
	EndTime    string            `json:"end_time,omitempty"`
	Sources    []string          `json:"sources"`
	Locations  []string          `json:"locations"`
	Fields     map[string]string `json:"fields,omitempty"`
	Records    int               `json:"records"`
}

// Stats carries the per-run counters, including rows dropped for missing
// driver names so data loss is reported, not just implied by size deltas.
type Stats struct {
	RecordsPerSource map[string]int `json:"records_per_source"`
	DroppedNoDriver  map[string]int `json:"dropped_no_driver"`
	RosterMatched    int            `json:"roster_matched"`
	MergedDays       int            `json:"merged_days"`
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	Merged        []MergedDriverDay `json:"merged"`
	Discrepancies []Discrepancy     `json:"discrepancies"`
	Stats         Stats             `json:"stats"`

	providedSources []string
}

// Source pairs a parsed table with its record type tag.
type Source struct {
	Type  string
	Table *Parser.Table
}

// CombineAttendanceSources merges the three GPS-derived exports. Timecards
// are added through Combine when available.
func CombineAttendanceSources(drivingHistory, timeOnSite, activityDetail *Parser.Table) *Result {
	return Combine(nil,
		Source{Normalizer.DrivingHistory, drivingHistory},
		Source{Normalizer.TimeOnSite, timeOnSite},
		Source{Normalizer.ActivityDetail, activityDetail},
	)
}

// Combine normalizes every provided source, unifies driver identities
// against the roster (exact then fuzzy), groups records by (driver, date)
// and merges each group. Records without a driver name were already dropped
// during normalization; the counts land in Stats.
func Combine(roster []string, sources ...Source) *Result {
	result := &Result{
		Stats: Stats{
			RecordsPerSource: map[string]int{},
			DroppedNoDriver:  map[string]int{},
		},
	}

	var all []NormalizedRecord
	for _, src := range sources {
		if src.Table.Empty() {
			continue
		}
		records, dropped := RecordsFromTable(src.Table, src.Type)
		result.Stats.RecordsPerSource[src.Type] = len(records)
		if dropped > 0 {
			result.Stats.DroppedNoDriver[src.Type] = dropped
			Logger.Log.Warnw("rows dropped for missing driver name",
				"source", src.Type, "dropped", dropped, "kept", len(records))
		}
		result.providedSources = append(result.providedSources, src.Type)
		all = append(all, records...)
	}

	if len(roster) > 0 {
		unifyIdentities(all, roster, &result.Stats)
	}

	// Deterministic precedence: source priority, then event time, then the
	// order records were read.
	for i := range all {
		all[i].order = i
	}
	sort.SliceStable(all, func(i, j int) bool {
		pi, pj := sourcePriority[all[i].Source], sourcePriority[all[j].Source]
		if pi != pj {
			return pi < pj
		}
		ti, tj := eventTime(&all[i]), eventTime(&all[j])
		switch {
		case ti == nil && tj == nil:
			return all[i].order < all[j].order
		case ti == nil:
			return false
		case tj == nil:
			return true
		case !ti.Equal(*tj):
			return ti.Before(*tj)
		}
		return all[i].order < all[j].order
	})

	groups := map[string][]NormalizedRecord{}
	var keys []string
	for _, rec := range all {
		key := rec.DriverKey + "|" + rec.Date
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], rec)
	}
	sort.Strings(keys)

	for _, key := range keys {
		result.Merged = append(result.Merged, mergeGroup(groups[key]))
	}
	result.Stats.MergedDays = len(result.Merged)
	result.Discrepancies = findDiscrepancies(result)
	return result
}

// unifyIdentities rewrites each record's key to the roster spelling it
// matches, so "J. Doe" and "Doe, John" land in the same group when the
// roster knows the person.
func unifyIdentities(records []NormalizedRecord, roster []string, stats *Stats) {
	cache := map[string]string{}
	for i := range records {
		key := records[i].DriverKey
		match, seen := cache[key]
		if !seen {
			match = Normalizer.ClosestDriverMatch(records[i].DriverName, roster, Normalizer.DefaultMatchThreshold)
			cache[key] = match
		}
		if match != "" {
			records[i].DriverKey = Normalizer.NormalizeDriverName(match)
			stats.RosterMatched++
		}
	}
}

func mergeGroup(records []NormalizedRecord) MergedDriverDay {
	day := MergedDriverDay{
		DriverKey:  records[0].DriverKey,
		DriverName: records[0].DriverName,
		Date:       records[0].Date,
		Fields:     map[string]string{},
		Records:    len(records),
	}

	var earliestStart, latestEnd, earliestTs, latestTs *string
	for _, rec := range records {
		if !slices.Contains(day.Sources, rec.Source) {
			day.Sources = append(day.Sources, rec.Source)
		}
		if rec.Location != "" && !slices.Contains(day.Locations, rec.Location) {
			day.Locations = append(day.Locations, rec.Location)
		}

		if rec.StartTime != nil {
			keepMin(&earliestStart, rec.StartTime.Format("2006-01-02 15:04:05"))
		}
		if rec.EndTime != nil {
			keepMax(&latestEnd, rec.EndTime.Format("2006-01-02 15:04:05"))
		}
		if rec.Timestamp != nil {
			ts := rec.Timestamp.Format("2006-01-02 15:04:05")
			keepMin(&earliestTs, ts)
			keepMax(&latestTs, ts)
		}

		setIfEmpty(day.Fields, "employee_id", rec.EmployeeID)
		setIfEmpty(day.Fields, "asset", rec.AssetID)
		setIfEmpty(day.Fields, "job_number", rec.JobNumber)
		for _, k := range sortedKeys(rec.Extra) {
			setIfEmpty(day.Fields, strings.ToLower(k), rec.Extra[k])
		}
	}

	// Explicit start/end ranges win; bare event timestamps only bound the
	// day when no source carried a range.
	if earliestStart != nil {
		day.StartTime = *earliestStart
	} else if earliestTs != nil {
		day.StartTime = *earliestTs
	}
	if latestEnd != nil {
		day.EndTime = *latestEnd
	} else if latestTs != nil {
		day.EndTime = *latestTs
	}
	return day
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setIfEmpty(fields map[string]string, key, value string) {
	if value == "" {
		return
	}
	if _, ok := fields[key]; !ok {
		fields[key] = value
	}
}

func keepMin(current **string, candidate string) {
	if *current == nil || candidate < **current {
		*current = &candidate
	}
}

func keepMax(current **string, candidate string) {
	if *current == nil || candidate > **current {
		*current = &candidate
	}
}

func eventTime(rec *NormalizedRecord) *time.Time {
	if rec.StartTime != nil {
		return rec.StartTime
	}
	return rec.Timestamp
}
