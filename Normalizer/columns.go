package Normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"Traxovo/Logger"
	"Traxovo/Parser"
)

// Record type tags for the export kinds the suite ingests.
const (
	DrivingHistory = "driving_history"
	TimeOnSite     = "time_on_site"
	ActivityDetail = "activity_detail"
	Timecard       = "timecard"
	Usage          = "usage"
)

// Canonical column names added alongside the original export columns.
const (
	ColDriver     = "Driver"
	ColDriverName = "Driver Name"
	ColEmployeeID = "Employee ID"
	ColTimestamp  = "Timestamp"
	ColStartTime  = "Start Time"
	ColEndTime    = "End Time"
	ColDate       = "Date"
	ColLocation   = "Location"
	ColAsset      = "Asset"
	ColJobNumber  = "Job Number"
)

// synonyms maps, per record type, each canonical column to the header names
// seen for it across vendor exports. Lookup is case-insensitive on trimmed
// headers. The long tail that no table can anticipate is handled by the
// substring rules below.
var synonyms = map[string]map[string][]string{
	DrivingHistory: {
		ColDriver:    {"Contact", "DriverName", "Driver Name", "Name", "Employee", "Driver"},
		ColTimestamp: {"EventDateTime", "DateTime", "Event Time", "Event Date/Time", "Time", "Date/Time"},
		ColLocation:  {"Location", "Address", "Place", "Nearest Landmark"},
		ColAsset:     {"Asset", "Vehicle", "Unit", "Asset Label", "Vehicle Name"},
		ColJobNumber: {"Job Number", "Job No", "Job #"},
	},
	TimeOnSite: {
		ColDriver:    {"Driver", "Operator", "Employee Name", "Contact", "Name"},
		ColStartTime: {"Arrival", "Arrival Time", "Time In", "Start", "Start Time", "First Arrival"},
		ColEndTime:   {"Departure", "Departure Time", "Time Out", "End", "End Time", "Last Departure"},
		ColDate:      {"Date", "Day"},
		ColLocation:  {"Site", "Location", "Job Site", "Geofence", "Zone"},
		ColAsset:     {"Asset", "Vehicle", "Unit"},
	},
	ActivityDetail: {
		ColDriver:    {"Driver", "Operator", "Contact", "Employee"},
		ColTimestamp: {"Activity Time", "Event Time", "DateTime", "Timestamp", "Time"},
		ColLocation:  {"Location", "Address", "Site"},
		ColAsset:     {"Asset", "Asset Label", "Equipment", "Unit", "Vehicle"},
	},
	Timecard: {
		ColDriver:     {"Employee", "Employee Name", "Worker", "Name", "Driver"},
		ColEmployeeID: {"Employee ID", "Employee No", "Emp ID", "Payroll ID", "ID"},
		ColDate:       {"Date", "Work Date", "Shift Date"},
		ColStartTime:  {"Start", "Start Time", "Clock In", "Time In", "Punch In"},
		ColEndTime:    {"End", "End Time", "Clock Out", "Time Out", "Punch Out"},
		ColJobNumber:  {"Job Number", "Job", "Job Code", "Cost Code"},
	},
	Usage: {
		ColAsset:    {"Asset", "Asset ID", "Equipment", "Unit ID", "Machine"},
		ColDriver:   {"Operator", "Driver", "Assigned To"},
		ColDate:     {"Date", "Usage Date"},
		ColLocation: {"Location", "Site"},
	},
}

// substringRules resolve canonical columns the synonym table missed by
// matching fragments of the lower-cased header. All listed fragments must be
// present.
var substringRules = []struct {
	Canonical string
	Fragments []string
}{
	{ColJobNumber, []string{"job", "number"}},
	{ColJobNumber, []string{"job", "no"}},
	{ColEmployeeID, []string{"employee", "id"}},
	{ColDriver, []string{"driver"}},
	{ColDriver, []string{"operator"}},
	{ColDriver, []string{"employee"}},
	{ColDriver, []string{"contact"}},
	{ColDate, []string{"date"}},
	{ColStartTime, []string{"start"}},
	{ColStartTime, []string{"arriv"}},
	{ColStartTime, []string{"time", "in"}},
	{ColStartTime, []string{"clock", "in"}},
	{ColEndTime, []string{"end"}},
	{ColEndTime, []string{"depart"}},
	{ColEndTime, []string{"time", "out"}},
	{ColEndTime, []string{"clock", "out"}},
	{ColTimestamp, []string{"time"}},
	{ColLocation, []string{"location"}},
	{ColLocation, []string{"site"}},
	{ColLocation, []string{"address"}},
	{ColAsset, []string{"asset"}},
	{ColAsset, []string{"vehicle"}},
	{ColAsset, []string{"equipment"}},
}

// Driver cells come in two encodings across exports: "John Doe (1001)" and
// "1001 - John Doe". The first pattern is tried for the whole column, the
// second only for rows the first missed.
var (
	nameThenIDRe = regexp.MustCompile(`^\s*(.+?)\s*\((\d+)\)\s*$`)
	idThenNameRe = regexp.MustCompile(`^\s*(\d+)\s*-\s*(.+?)\s*$`)
)

// NormalizeColumns adds canonical columns to a table for the given record
// type. Original columns are kept untouched; canonical columns the file does
// not carry stay empty rather than being synthesized.
func NormalizeColumns(t *Parser.Table, recordType string) *Parser.Table {
	if t.Empty() {
		return t
	}

	table, ok := synonyms[recordType]
	if !ok {
		Logger.Log.Warnw("unknown record type, leaving columns as-is", "record_type", recordType)
		return t
	}

	resolved := resolveColumns(t.Headers, table)
	for canonical, source := range resolved {
		t.AddColumn(canonical)
		if canonical == source {
			continue
		}
		for _, row := range t.Rows {
			row[canonical] = row[source]
		}
	}

	if _, ok := resolved[ColDriver]; ok {
		extractDriverIdentity(t)
	}
	return t
}

// resolveColumns maps canonical names to the source header that feeds them:
// exact synonym match first, substring rules second.
func resolveColumns(headers []string, table map[string][]string) map[string]string {
	resolved := make(map[string]string)
	taken := make(map[string]bool)

	for canonical, names := range table {
		for _, name := range names {
			if src, ok := findHeader(headers, name); ok && !taken[src] {
				resolved[canonical] = src
				taken[src] = true
				break
			}
		}
	}

	for _, rule := range substringRules {
		if _, done := resolved[rule.Canonical]; done {
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
				resolved[rule.Canonical] = h
				taken[h] = true
				break
			}
		}
	}
	return resolved
}

func findHeader(headers []string, name string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return h, true
		}
	}
	return "", false
}

// extractDriverIdentity splits combined driver cells into Driver Name and
// Employee ID columns.
func extractDriverIdentity(t *Parser.Table) {
	t.AddColumn(ColDriverName)
	t.AddColumn(ColEmployeeID)

	for _, row := range t.Rows {
		raw := row[ColDriver]
		if raw == "" {
			continue
		}
		if m := nameThenIDRe.FindStringSubmatch(raw); m != nil {
			row[ColDriverName] = m[1]
			if row[ColEmployeeID] == "" {
				row[ColEmployeeID] = m[2]
			}
			continue
		}
		if m := idThenNameRe.FindStringSubmatch(raw); m != nil {
			row[ColDriverName] = m[2]
			if row[ColEmployeeID] == "" {
				row[ColEmployeeID] = m[1]
			}
			continue
		}
		row[ColDriverName] = strings.TrimSpace(raw)
	}
}

// FormatDetectionError reports that a detected layout does not conform to
// the schema expected for a record type. It exists so callers can refuse to
// reconcile against garbage boundaries instead of silently proceeding.
type FormatDetectionError struct {
	RecordType string
	Columns    []string
	Missing    []string
}

func (e *FormatDetectionError) Error() string {
	return fmt.Sprintf("detected layout does not fit %s schema: missing %s (columns: %s)",
		e.RecordType, strings.Join(e.Missing, ", "), strings.Join(e.Columns, ", "))
}

// requiredColumns lists the canonical fields a layout must resolve before it
// is trusted for a record type.
var requiredColumns = map[string][]string{
	DrivingHistory: {ColDriver, ColTimestamp},
	TimeOnSite:     {ColDriver, ColStartTime},
	ActivityDetail: {ColDriver, ColTimestamp},
	Timecard:       {ColDriver, ColStartTime},
	Usage:          {ColAsset, ColDate},
}

// CheckLayout validates a sniffed header set against the record type schema.
// The sniffer itself never fails; this is the conformance gate behind it.
func CheckLayout(recordType string, columns []string) error {
	table, ok := synonyms[recordType]
	if !ok {
		return &FormatDetectionError{RecordType: recordType, Columns: columns,
			Missing: []string{"(unknown record type)"}}
	}

	resolved := resolveColumns(columns, table)
	var missing []string
	for _, canonical := range requiredColumns[recordType] {
		if _, ok := resolved[canonical]; !ok {
			missing = append(missing, canonical)
		}
	}
	if len(missing) > 0 {
		return &FormatDetectionError{RecordType: recordType, Columns: columns, Missing: missing}
	}
	return nil
}
