package loader

import "strings"

// Logical table names used in configuration and log output.
const (
	TableCustomer    = "customer"
	TableProduct     = "product"
	TableSales       = "sales"
	TableTerritories = "territories"
)

// Table is a raw tabular dataset read from a source file: a header plus
// string-valued cells. Empty cells are missing values; type coercion happens
// later, in the cleaning stage.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a column by name, or -1 when the
// column is not part of the table schema.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table schema contains the named column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the trimmed value at the given column index for a row, or ""
// when the row is shorter than the header.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalize trims headers and pads every row to the header width so callers
// can index by column position safely.
func (t *Table) normalize() {
	for i, col := range t.Columns {
		t.Columns[i] = strings.TrimSpace(col)
	}
	width := len(t.Columns)
	for i, row := range t.Rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			t.Rows[i] = padded
		}
	}
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
