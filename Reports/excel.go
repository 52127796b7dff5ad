package Reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"Traxovo/Logger"
	"Traxovo/Reconciler"
)

// Sheet order in the report workbook.
var statusSheets = []string{
	Reconciler.StatusOnTime,
	Reconciler.StatusLate,
	Reconciler.StatusEarlyEnd,
	Reconciler.StatusNotOnJob,
}

var workbookHeaders = []string{
	"Driver", "Date", "Zone", "Start Time", "End Time",
	"Sources", "Locations", "Late (min)", "Notes",
}

// BuildWorkbook renders the run as an Excel workbook with one sheet per
// attendance status plus a discrepancy sheet.
func BuildWorkbook(out *RunOutput) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		headerStyle = 0
	}

	for _, status := range statusSheets {
		if err := writeStatusSheet(f, status, out, headerStyle); err != nil {
			return nil, err
		}
	}
	if err := writeDiscrepancySheet(f, out, headerStyle); err != nil {
		return nil, err
	}

	if f.GetSheetName(0) == "Sheet1" {
		f.DeleteSheet("Sheet1")
	}
	if idx, err := f.GetSheetIndex(statusSheets[0]); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// WriteWorkbook builds and saves the report workbook.
func WriteWorkbook(path string, out *RunOutput) error {
	f, err := BuildWorkbook(out)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	Logger.Log.Infow("report workbook written", "path", path, "statuses", out.StatusCounts())
	return nil
}

// WorkbookBuffer renders the workbook into memory for HTTP download.
func WorkbookBuffer(out *RunOutput) (*bytes.Buffer, error) {
	f, err := BuildWorkbook(out)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return &buf, nil
}

func writeStatusSheet(f *excelize.File, status string, out *RunOutput, headerStyle int) error {
	if _, err := f.NewSheet(status); err != nil {
		return fmt.Errorf("create sheet %q: %w", status, err)
	}

	for i, header := range workbookHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(status, cell, header)
	}
	if headerStyle != 0 {
		f.SetRowStyle(status, 1, 1, headerStyle)
	}

	row := 2
	for _, day := range out.Days {
		if day.Status != status {
			continue
		}
		notes := day.Validation.Reason
		values := []interface{}{
			day.DriverName,
			day.Date,
			day.ZoneID,
			day.StartTime,
			day.EndTime,
			strings.Join(day.Sources, ", "),
			strings.Join(day.Locations, "; "),
			day.Validation.LateMinutes,
			notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(status, cell, v)
		}
		row++
	}

	for i := range workbookHeaders {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(status, name, name, 18)
	}
	return nil
}

func writeDiscrepancySheet(f *excelize.File, out *RunOutput, headerStyle int) error {
	const sheet = "Discrepancies"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}

	headers := []string{"Driver", "Date", "Type", "Detail"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	if headerStyle != 0 {
		f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	for i, d := range out.Discrepancies {
		values := []interface{}{d.DriverName, d.Date, d.Type, d.Detail}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	for i := range headers {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, name, name, 24)
	}
	return nil
}
