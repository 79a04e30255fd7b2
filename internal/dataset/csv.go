package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	apperrors "datanotes/internal/errors"
)

// ReadCSV builds a Table from CSV input. The first record is the header row.
// An input with a header but no data rows is a valid, empty table; a fully
// empty input is a schema error because there is no column contract to
// validate against.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged exports, AppendRow enforces width

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}

	if len(records) == 0 {
		return nil, apperrors.NewSchemaError("CSV input has no header row", nil)
	}

	table, err := New(stripBOM(records[0]))
	if err != nil {
		return nil, err
	}

	for i, record := range records[1:] {
		if err := table.AppendRow(record); err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", i+2, err)
		}
	}

	return table, nil
}

// stripBOM removes a UTF-8 byte order mark from the first header cell.
// Spreadsheet tools prepend one to CSV exports.
func stripBOM(header []string) []string {
	if len(header) > 0 && len(header[0]) >= 3 && header[0][:3] == "\xef\xbb\xbf" {
		out := make([]string, len(header))
		copy(out, header)
		out[0] = out[0][3:]
		return out
	}
	return header
}
