package entity

// Cell is one header/value pair of a spreadsheet row, in source column order.
type Cell struct {
	Header string
	Value  string
}

// ImportRow is a parsed row in transit. Index is 1-based and counts data rows
// only (the header is not a row).
type ImportRow struct {
	Index int
	Cells []Cell
}

// Data returns the raw row as it is echoed back in the import report.
func (r ImportRow) Data() map[string]string {
	data := make(map[string]string, len(r.Cells))
	for _, c := range r.Cells {
		data[c.Header] = c.Value
	}
	return data
}

type RowError struct {
	Row   int               `json:"row"`
	Data  map[string]string `json:"data"`
	Error string            `json:"error"`
}

type ImportReport struct {
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Rejected int        `json:"rejected"`
	Errors   []RowError `json:"errors"`
}

// Total de linhas contabilizadas no relatório.
func (r ImportReport) Total() int {
	return r.Inserted + r.Updated + r.Skipped + r.Rejected
}
