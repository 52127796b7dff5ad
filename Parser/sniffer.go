package Parser

import (
	"encoding/csv"
	"regexp"
	"strings"

	"Traxovo/Logger"
)

// Layout is the sniffer's best guess at where a delimited export actually
// starts. Vendor exports routinely carry report banners, date ranges and
// blank padding above the real header, so none of these indices can be
// trusted blindly; callers validate the column set before relying on it.
type Layout struct {
	HeaderRow    int
	DataStartRow int
	Columns      []string
}

// Keywords that strongly suggest a row is the real column header of a fleet
// export rather than report metadata.
var headerKeywords = []string{
	"driver", "vehicle", "asset", "time", "date", "location", "event", "contact",
}

var (
	dateFieldRe = regexp.MustCompile(`\d{1,4}[/-]\d{1,2}[/-]\d{1,4}`)
	timeFieldRe = regexp.MustCompile(`\d{1,2}:\d{2}`)
	nameFieldRe = regexp.MustCompile(`^[A-Za-z][A-Za-z.'-]*[,]?\s+[A-Za-z]`)
	numericRe   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// DetectLayout locates the header row and first data row in raw file
// content. It always returns a best guess and never fails; an empty Columns
// slice tells the caller to fall back to ParseMalformedCSV.
func DetectLayout(data []byte) Layout {
	lines := splitLines(data)
	fields := make([][]string, len(lines))
	for i, line := range lines {
		fields[i] = parseCSVLine(line)
	}
	return detectLayoutFields(fields)
}

// DetectLayoutRows runs the same heuristics over already-split rows, as
// produced by excelize for spreadsheet files.
func DetectLayoutRows(rows [][]string) Layout {
	return detectLayoutFields(rows)
}

func detectLayoutFields(fields [][]string) Layout {
	headerRow := -1
	maxFields := 0

	// Pass 1: the row with the most fields is the header candidate. Short
	// rows near the top are banner lines, not headers.
	for i, row := range fields {
		n := countNonEmpty(row)
		if n == 0 {
			continue
		}
		if i < 10 && n <= 3 {
			continue
		}
		if n > maxFields {
			maxFields = n
			headerRow = i
		}
	}

	if headerRow < 0 {
		Logger.Log.Debugw("layout detection found no header candidate")
		return Layout{HeaderRow: 0, DataStartRow: 1}
	}

	// Pass 2: rescan a window around the candidate for a row that names the
	// things fleet exports name. A keyword row with a comparable field count
	// beats the raw width winner.
	lo := headerRow - 5
	if lo < 0 {
		lo = 0
	}
	hi := headerRow + 10
	if hi >= len(fields) {
		hi = len(fields) - 1
	}
	for i := lo; i <= hi; i++ {
		n := countNonEmpty(fields[i])
		if n == 0 || float64(n) < 0.7*float64(maxFields) {
			continue
		}
		if keywordHits(fields[i]) >= 2 {
			headerRow = i
			break
		}
	}

	columns := trimFields(fields[headerRow])

	// Pass 3: find where the data actually starts. Exports sometimes repeat
	// sub-headers or unit rows directly under the header, so we want two
	// rows that look like records before trusting the first.
	dataStart := headerRow + 1
	found := []int{}
	for i := headerRow + 1; i < len(fields) && i <= headerRow+15; i++ {
		if countNonEmpty(fields[i]) == 0 {
			continue
		}
		if looksLikeDataRow(fields[i]) {
			found = append(found, i)
			if len(found) == 2 {
				break
			}
		}
	}
	if len(found) > 0 {
		dataStart = found[0]
	}

	return Layout{HeaderRow: headerRow, DataStartRow: dataStart, Columns: columns}
}

// looksLikeDataRow requires both a date/time/name shaped field and a bare
// numeric field, which together rule out section titles and totals rows.
func looksLikeDataRow(row []string) bool {
	patterned := false
	numeric := false
	for _, f := range row {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if dateFieldRe.MatchString(f) || timeFieldRe.MatchString(f) || nameFieldRe.MatchString(f) {
			patterned = true
		}
		if numericRe.MatchString(f) {
			numeric = true
		}
		if patterned && numeric {
			return true
		}
	}
	return false
}

func keywordHits(row []string) int {
	joined := strings.ToLower(strings.Join(row, " "))
	hits := 0
	for _, kw := range headerKeywords {
		if strings.Contains(joined, kw) {
			hits++
		}
	}
	return hits
}

func countNonEmpty(row []string) int {
	n := 0
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n
}

func trimFields(row []string) []string {
	out := make([]string, len(row))
	for i, f := range row {
		out[i] = strings.TrimSpace(strings.TrimPrefix(f, "\uFEFF"))
	}
	return out
}

// parseCSVLine parses a single physical line as one CSV record. Lenient on
// quoting because vendor exports are.
func parseCSVLine(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		// Unbalanced quotes or similar: treat as a naive comma split so the
		// line still participates in field counting.
		return strings.Split(line, ",")
	}
	return fields
}

func splitLines(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
