package Parser

// Table is the in-memory shape every export is reduced to after ingestion:
// an ordered header list plus one map per data row. Rows always contain an
// entry for every header; missing cells are empty strings.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// NewTable builds a table from a header list and raw row slices, padding or
// truncating each row to the header count.
func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{Headers: headers}
	for _, raw := range rows {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = raw[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Empty reports whether the table carries no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// HasColumn reports whether a header is present.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// AddColumn registers a new header. Existing rows get an empty value for it.
// Adding an existing header is a no-op.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Headers = append(t.Headers, name)
	for _, row := range t.Rows {
		if _, ok := row[name]; !ok {
			row[name] = ""
		}
	}
}

// Column returns all values of one column in row order. Missing column
// yields an all-empty slice so callers never branch on presence.
func (t *Table) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}
