package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "datanotes/internal/errors"
)

// writeTestWorkbook builds an xlsx file with a decorative title block above
// the data table, the shape public datasets usually arrive in.
func writeTestWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(index)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func claimsRows() [][]interface{} {
	return [][]interface{}{
		{"Insurance claims extract"},
		{},
		{"id", "car_1_pre", "car_1_post"},
		{"1", 12500, 14500},
		{"2", 9100, 8350},
		{},
	}
}

func TestLoadSheet_NamedSheet(t *testing.T) {
	path := writeTestWorkbook(t, "claims", claimsRows())

	table, err := LoadSheet(path, SheetOptions{
		Sheet:          "claims",
		HeaderKeywords: []string{"id", "car_1_pre"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "car_1_pre", "car_1_post"}, table.Columns())
	assert.Equal(t, 2, table.Len())

	v, err := table.Decimal(0, "car_1_post")
	require.NoError(t, err)
	assert.Equal(t, "14500", v.String())
}

func TestLoadSheet_DetectsSheetByKeywords(t *testing.T) {
	path := writeTestWorkbook(t, "Data 2021  ", claimsRows())

	table, err := LoadSheet(path, SheetOptions{
		HeaderKeywords: []string{"id", "car_1_pre", "car_1_post"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoadSheet_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSheet(filepath.Join(t.TempDir(), "nope.xlsx"), SheetOptions{Sheet: "claims"})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWorkbook))
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := writeTestWorkbook(t, "claims", claimsRows())
		_, err := LoadSheet(path, SheetOptions{Sheet: "other"})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWorkbook))
	})

	t.Run("no keywords and no sheet name", func(t *testing.T) {
		path := writeTestWorkbook(t, "claims", claimsRows())
		_, err := LoadSheet(path, SheetOptions{})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWorkbook))
	})

	t.Run("keywords match nothing", func(t *testing.T) {
		path := writeTestWorkbook(t, "claims", claimsRows())
		_, err := LoadSheet(path, SheetOptions{HeaderKeywords: []string{"no_such_column"}})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWorkbook))
	})

	t.Run("headerless sheet", func(t *testing.T) {
		path := writeTestWorkbook(t, "empty", [][]interface{}{{"only a title"}})
		_, err := LoadSheet(path, SheetOptions{Sheet: "empty"})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWorkbook))
	})
}
