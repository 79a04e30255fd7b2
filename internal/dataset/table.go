package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "datanotes/internal/errors"
)

// Table is an immutable-once-loaded, in-memory wide table: ordered column
// names plus rows of string cells. Posts load one Table per dataset and
// derive everything else from it.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// missingTokens are cell values treated as absent observations.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"nan":  true,
}

// New creates an empty table with the given column names.
func New(cols []string) (*Table, error) {
	if len(cols) == 0 {
		return nil, apperrors.NewSchemaError("table requires at least one column", nil)
	}

	index := make(map[string]int, len(cols))
	clean := make([]string, len(cols))
	for i, col := range cols {
		name := strings.TrimSpace(col)
		if name == "" {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("column %d has an empty name", i), nil)
		}
		if _, dup := index[name]; dup {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("duplicate column name: %s", name), nil)
		}
		index[name] = i
		clean[i] = name
	}

	return &Table{cols: clean, index: index}, nil
}

// AppendRow adds one row. Short rows are padded with empty cells so ragged
// CSV exports still load; long rows are a schema violation.
func (t *Table) AppendRow(cells []string) error {
	if len(cells) > len(t.cols) {
		return apperrors.NewSchemaError(
			fmt.Sprintf("row has %d cells but table has %d columns", len(cells), len(t.cols)), nil)
	}

	row := make([]string, len(t.cols))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the raw cell value. ok is false when the column does not
// exist or the row index is out of range.
func (t *Table) Cell(row int, col string) (string, bool) {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	return t.rows[row][i], true
}

// IsMissing reports whether the cell is absent or holds a missing-value
// token (empty, NA, NULL, NaN; case-insensitive).
func (t *Table) IsMissing(row int, col string) bool {
	cell, ok := t.Cell(row, col)
	if !ok {
		return true
	}
	return missingTokens[strings.ToLower(strings.TrimSpace(cell))]
}

// Float parses the cell as a float64. Thousands separators are tolerated
// since public CSV exports frequently carry them.
func (t *Table) Float(row int, col string) (float64, error) {
	d, err := t.Decimal(row, col)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

// Decimal parses the cell as an exact decimal value.
func (t *Table) Decimal(row int, col string) (decimal.Decimal, error) {
	cell, ok := t.Cell(row, col)
	if !ok {
		return decimal.Zero, apperrors.NewSchemaError(
			fmt.Sprintf("no cell at row %d column %s", row, col), nil)
	}

	cleaned := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, apperrors.NewSchemaError(
			fmt.Sprintf("parse numeric cell %q (row %d, column %s)", cell, row, col), err)
	}
	return d, nil
}

// dateFormats are tried in order when parsing date cells.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01-02-2006",
}

// Time parses the cell as a date, trying the supported formats in order.
func (t *Table) Time(row int, col string) (time.Time, error) {
	cell, ok := t.Cell(row, col)
	if !ok {
		return time.Time{}, apperrors.NewSchemaError(
			fmt.Sprintf("no cell at row %d column %s", row, col), nil)
	}

	trimmed := strings.TrimSpace(cell)
	for _, format := range dateFormats {
		if date, err := time.Parse(format, trimmed); err == nil {
			return date, nil
		}
	}

	return time.Time{}, apperrors.NewSchemaError(
		fmt.Sprintf("unable to parse date %q (row %d, column %s)", cell, row, col), nil)
}
