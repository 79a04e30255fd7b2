// Package workbook loads spreadsheet datasets into in-memory tables.
// Public-sector datasets ship as Excel files whose sheet names and header
// positions drift between releases, so loading is heuristic: an explicit
// sheet name is honored first, then sheets are scanned for one whose
// header row carries the expected keywords.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"datanotes/internal/dataset"
	apperrors "datanotes/internal/errors"
)

// SheetOptions controls how a sheet is located and read.
type SheetOptions struct {
	// Sheet, when set, names the sheet to read. When empty the workbook
	// is scanned for a sheet matching HeaderKeywords.
	Sheet string

	// HeaderKeywords are lowercase substrings that must all appear in
	// the header row. Required when Sheet is empty; when Sheet is set
	// they still locate the header row within it.
	HeaderKeywords []string

	// MaxHeaderScan caps how many leading rows are searched for the
	// header. Zero means 10, enough for the title blocks public
	// datasets put above their tables.
	MaxHeaderScan int
}

// LoadSheet reads one sheet of an Excel workbook into a table. Rows above
// the detected header row are ignored; rows below it become table rows,
// padded to the header width.
func LoadSheet(path string, opts SheetOptions) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewWorkbookError(
			fmt.Sprintf("open workbook %s", path), err)
	}
	defer f.Close()

	rows, sheetName, err := findSheet(f, opts)
	if err != nil {
		return nil, err
	}

	headerIdx, header, herr := findHeaderRow(rows, opts)
	if herr != nil {
		return nil, herr.WithContext("sheet", sheetName).WithContext("path", path)
	}

	table, terr := dataset.New(header)
	if terr != nil {
		return nil, terr
	}

	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) > len(header) {
			row = row[:len(header)]
		}
		if aerr := table.AppendRow(row); aerr != nil {
			return nil, aerr
		}
	}

	return table, nil
}

// findSheet returns the rows of the requested or detected sheet.
func findSheet(f *excelize.File, opts SheetOptions) ([][]string, string, error) {
	if opts.Sheet != "" {
		rows, err := f.GetRows(opts.Sheet)
		if err != nil {
			return nil, "", apperrors.NewWorkbookError(
				fmt.Sprintf("sheet %q not readable", opts.Sheet), err)
		}
		return rows, opts.Sheet, nil
	}

	if len(opts.HeaderKeywords) == 0 {
		return nil, "", apperrors.NewWorkbookError(
			"sheet detection requires header keywords", nil)
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if _, _, herr := findHeaderRow(rows, opts); herr == nil {
			return rows, name, nil
		}
	}

	return nil, "", apperrors.NewWorkbookError(
		fmt.Sprintf("no sheet matches header keywords %v", opts.HeaderKeywords), nil)
}

// findHeaderRow locates the header row: the first row whose joined cells
// contain every keyword, or, without keywords, the first row with at
// least two non-blank cells.
func findHeaderRow(rows [][]string, opts SheetOptions) (int, []string, *apperrors.AppError) {
	maxScan := opts.MaxHeaderScan
	if maxScan <= 0 {
		maxScan = 10
	}
	if maxScan > len(rows) {
		maxScan = len(rows)
	}

	for i := 0; i < maxScan; i++ {
		row := rows[i]
		if countNonBlank(row) < 2 {
			continue
		}

		if len(opts.HeaderKeywords) > 0 {
			rowText := strings.ToLower(strings.Join(row, " "))
			matched := true
			for _, kw := range opts.HeaderKeywords {
				if !strings.Contains(rowText, strings.ToLower(kw)) {
					matched = false
					break
				}
			}
			if !matched {
				continue
			}
		}

		header := make([]string, len(row))
		for j, cell := range row {
			header[j] = strings.TrimSpace(cell)
		}
		// Trailing blank header cells are artifacts of merged title
		// cells above the table, not columns.
		for len(header) > 0 && header[len(header)-1] == "" {
			header = header[:len(header)-1]
		}
		return i, header, nil
	}

	return 0, nil, apperrors.NewWorkbookError("no header row found", nil)
}

func countNonBlank(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}

func isBlankRow(row []string) bool {
	return countNonBlank(row) == 0
}
