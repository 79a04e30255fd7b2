package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "datanotes/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cols    []string
		wantErr bool
	}{
		{"valid columns", []string{"id", "car_1_pre", "car_1_post"}, false},
		{"no columns", nil, true},
		{"duplicate column", []string{"id", "id"}, true},
		{"blank column name", []string{"id", "  "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(tt.cols)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsSchema(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cols, tbl.Columns())
		})
	}
}

func TestTable_AppendRow(t *testing.T) {
	tbl, err := New([]string{"id", "value"})
	require.NoError(t, err)

	require.NoError(t, tbl.AppendRow([]string{"1", "100"}))
	require.NoError(t, tbl.AppendRow([]string{"2"})) // short row padded

	err = tbl.AppendRow([]string{"3", "300", "extra"})
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))

	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.IsMissing(1, "value"))
}

func TestTable_IsMissing(t *testing.T) {
	tbl, err := New([]string{"v"})
	require.NoError(t, err)

	for _, cell := range []string{"", "  ", "NA", "n/a", "NULL", "NaN"} {
		require.NoError(t, tbl.AppendRow([]string{cell}))
	}
	require.NoError(t, tbl.AppendRow([]string{"0"}))

	for row := 0; row < 6; row++ {
		assert.True(t, tbl.IsMissing(row, "v"), "row %d", row)
	}
	assert.False(t, tbl.IsMissing(6, "v"))
	assert.True(t, tbl.IsMissing(0, "absent_column"))
}

func TestTable_Decimal(t *testing.T) {
	tbl, err := New([]string{"amount"})
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow([]string{"1,250.50"}))
	require.NoError(t, tbl.AppendRow([]string{"not a number"}))

	d, err := tbl.Decimal(0, "amount")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1250.50")))

	_, err = tbl.Decimal(1, "amount")
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))
}

func TestTable_Time(t *testing.T) {
	tbl, err := New([]string{"date"})
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow([]string{"2021-03-05"}))
	require.NoError(t, tbl.AppendRow([]string{"bogus"}))

	date, err := tbl.Time(0, "date")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC), date)

	_, err = tbl.Time(1, "date")
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))
}

func TestReadCSV(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		input := "id,car_1_pre,car_1_post\n1,100,150\n2,200,\n"
		tbl, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"id", "car_1_pre", "car_1_post"}, tbl.Columns())
		assert.Equal(t, 2, tbl.Len())

		cell, ok := tbl.Cell(0, "car_1_post")
		require.True(t, ok)
		assert.Equal(t, "150", cell)
		assert.True(t, tbl.IsMissing(1, "car_1_post"))
	})

	t.Run("header only is empty table", func(t *testing.T) {
		tbl, err := ReadCSV(strings.NewReader("id,value\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
	})

	t.Run("empty input is schema error", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		require.Error(t, err)
		assert.True(t, apperrors.IsSchema(err))
	})

	t.Run("BOM stripped from header", func(t *testing.T) {
		tbl, err := ReadCSV(strings.NewReader("\xef\xbb\xbfid,value\n1,2\n"))
		require.NoError(t, err)
		assert.True(t, tbl.HasColumn("id"))
	})
}
