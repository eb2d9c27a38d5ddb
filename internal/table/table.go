// Package table wraps the raw row-of-strings shape returned by a row source
// in a small abstraction that knows about the header row and tolerates ragged
// rows, so lookup code never does positional indexing on its own.
package table

import "strings"

// Table holds the rows of one tab. The first row passed to New is the header
// row; the rest are data rows.
type Table struct {
	headers []string
	rows    [][]string
}

// New builds a Table from raw rows. An empty or nil slice yields an empty
// table with no headers.
func New(rows [][]string) Table {
	if len(rows) == 0 {
		return Table{}
	}
	return Table{headers: rows[0], rows: rows[1:]}
}

// Empty reports whether the table has no rows at all, not even a header.
func (t Table) Empty() bool {
	return t.headers == nil
}

// Headers returns the header row.
func (t Table) Headers() []string {
	return t.headers
}

// Rows returns the data rows (everything after the header row).
func (t Table) Rows() [][]string {
	return t.rows
}

// ColumnIndex returns the zero-based position of the first header cell whose
// trimmed, case-folded value equals the trimmed, case-folded name, or -1 when
// no header matches. Duplicate headers resolve to the first occurrence.
func (t Table) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.headers {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// Cell returns the cell at idx in row, or "" when the column was not resolved
// (idx < 0) or the row is too short. Sheets return ragged rows; a missing
// trailing cell is the same as an empty one.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
