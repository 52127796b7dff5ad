package Reconciler

import (
	"strings"
	"time"

	"Traxovo/Normalizer"
	"Traxovo/Parser"
)

// NormalizedRecord is one source row reduced to the canonical attendance
// fields. Records without a recognizable driver never make it past
// RecordsFromTable, so every record downstream carries a non-empty key.
type NormalizedRecord struct {
	Source     string
	DriverName string
	DriverKey  string
	EmployeeID string
	AssetID    string
	Location   string
	JobNumber  string
	Date       string // YYYY-MM-DD; empty when no date could be parsed
	Timestamp  *time.Time
	StartTime  *time.Time
	EndTime    *time.Time
	Extra      map[string]string

	order int // position in the pre-merge sort, for stable grouping
}

// Layouts tried for full date+time cells, widest first. Vendor exports mix
// all of these freely.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 3:04 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

var clockLayouts = []string{"15:04:05", "15:04", "03:04 PM", "3:04 PM", "3:04PM"}

// RecordsFromTable normalizes a parsed export into attendance records.
// Returns the records plus the count of rows dropped for missing a driver
// name, so silent data loss shows up in run stats rather than only in the
// size of the output.
func RecordsFromTable(t *Parser.Table, recordType string) ([]NormalizedRecord, int) {
	if t.Empty() {
		return nil, 0
	}
	Normalizer.NormalizeColumns(t, recordType)

	canonical := map[string]bool{
		Normalizer.ColDriver: true, Normalizer.ColDriverName: true,
		Normalizer.ColEmployeeID: true, Normalizer.ColTimestamp: true,
		Normalizer.ColStartTime: true, Normalizer.ColEndTime: true,
		Normalizer.ColDate: true, Normalizer.ColLocation: true,
		Normalizer.ColAsset: true, Normalizer.ColJobNumber: true,
	}

	var records []NormalizedRecord
	dropped := 0
	for _, row := range t.Rows {
		name := strings.TrimSpace(row[Normalizer.ColDriverName])
		if name == "" {
			name = strings.TrimSpace(row[Normalizer.ColDriver])
		}
		if name == "" {
			// No anonymous attendance entries.
			dropped++
			continue
		}

		rec := NormalizedRecord{
			Source:     recordType,
			DriverName: name,
			DriverKey:  Normalizer.NormalizeDriverName(name),
			EmployeeID: strings.TrimSpace(row[Normalizer.ColEmployeeID]),
			AssetID:    strings.TrimSpace(row[Normalizer.ColAsset]),
			Location:   strings.TrimSpace(row[Normalizer.ColLocation]),
			JobNumber:  strings.TrimSpace(row[Normalizer.ColJobNumber]),
			Timestamp:  ParseDateTime(row[Normalizer.ColTimestamp]),
			Extra:      map[string]string{},
		}

		date := strings.TrimSpace(row[Normalizer.ColDate])
		if day := ParseDateTime(date); day != nil {
			rec.Date = day.Format("2006-01-02")
		} else if rec.Timestamp != nil {
			rec.Date = rec.Timestamp.Format("2006-01-02")
		}

		rec.StartTime = parseEventTime(row[Normalizer.ColStartTime], rec.Date)
		rec.EndTime = parseEventTime(row[Normalizer.ColEndTime], rec.Date)
		if rec.Date == "" && rec.StartTime != nil {
			rec.Date = rec.StartTime.Format("2006-01-02")
		}

		for _, h := range t.Headers {
			if canonical[h] {
				continue
			}
			if v := strings.TrimSpace(row[h]); v != "" {
				rec.Extra[h] = v
			}
		}

		records = append(records, rec)
	}
	return records, dropped
}

// ParseDateTime parses a cell that may hold a date, a datetime, or nothing
// recognizable. Unparseable values yield nil and the record is kept with
// partial data.
func ParseDateTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseEventTime handles start/end cells: either a full datetime or a bare
// clock time anchored to the record's date.
func parseEventTime(s, date string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t := ParseDateTime(s); t != nil {
		return t
	}
	if date == "" {
		return nil
	}
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, s); err == nil {
			if day, err := time.Parse("2006-01-02", date); err == nil {
				t := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
				return &t
			}
		}
	}
	return nil
}
