package Parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"Traxovo/Logger"
)

// ReadTable ingests one export file (CSV or XLSX) into a Table, using layout
// detection to skip whatever banner rows the vendor put above the header.
// An unreadable file is the only hard error; structural problems degrade to
// the fallback line parser per the error-handling policy (best-effort,
// partial results).
func ReadTable(path string) (*Table, Layout, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return readExcel(path)
	default:
		return readDelimited(path)
	}
}

func readDelimited(path string) (*Table, Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Layout{}, fmt.Errorf("read %s: %w", path, err)
	}

	layout := DetectLayout(data)
	if len(layout.Columns) == 0 || countNonEmpty(layout.Columns) == 0 {
		Logger.Log.Warnw("layout detection produced no columns, using fallback parser", "file", path)
		return ParseMalformedCSV(data), layout, nil
	}

	lines := splitLines(data)
	var rows [][]string
	for i := layout.DataStartRow; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		rows = append(rows, parseCSVLine(lines[i]))
	}

	table := NewTable(layout.Columns, rows)
	Logger.Log.Infow("parsed export",
		"file", path, "header_row", layout.HeaderRow,
		"data_start_row", layout.DataStartRow, "rows", len(table.Rows))
	return table, layout, nil
}

func readExcel(path string) (*Table, Layout, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, Layout{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, Layout{}, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}

	layout := DetectLayoutRows(raw)
	if len(layout.Columns) == 0 || countNonEmpty(layout.Columns) == 0 {
		Logger.Log.Warnw("no usable header in workbook", "file", path, "sheet", sheet)
		return &Table{}, layout, nil
	}

	var rows [][]string
	for i := layout.DataStartRow; i < len(raw); i++ {
		if countNonEmpty(raw[i]) == 0 {
			continue
		}
		rows = append(rows, raw[i])
	}

	table := NewTable(trimFields(layout.Columns), rows)
	Logger.Log.Infow("parsed workbook",
		"file", path, "sheet", sheet, "header_row", layout.HeaderRow, "rows", len(table.Rows))
	return table, layout, nil
}
