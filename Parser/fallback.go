package Parser

import (
	"strings"

	"Traxovo/Logger"
)

// ParseMalformedCSV is the last-resort parser for files the structured path
// cannot handle: pick the line with the most commas as the header, then
// split every later non-empty line on commas, padded or truncated to the
// header width. Quoting and alternate delimiters are ignored, so rows that
// rely on them will be mis-split. It never fails; worst case is an empty
// table.
func ParseMalformedCSV(data []byte) *Table {
	lines := splitLines(data)

	headerLine := -1
	maxCommas := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if c := strings.Count(line, ","); c > maxCommas {
			maxCommas = c
			headerLine = i
		}
	}
	if headerLine < 0 {
		return &Table{}
	}

	headers := trimFields(strings.Split(lines[headerLine], ","))
	var rows [][]string
	for _, line := range lines[headerLine+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) > len(headers) {
			fields = fields[:len(headers)]
		}
		rows = append(rows, fields)
	}

	Logger.Log.Warnw("fallback line parser used",
		"header_line", headerLine, "columns", len(headers), "rows", len(rows))
	return NewTable(headers, rows)
}
