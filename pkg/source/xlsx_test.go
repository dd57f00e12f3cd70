package source

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/prgraph/pkg/errors"
)

func workbook(t *testing.T, sheet string, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSX(t *testing.T) {
	buf := workbook(t, DefaultSheet,
		[]any{" BTYP ", "M_NR", "Z_MNR", "BEZ"},
		[]any{"A", 4711, "'4712", "Pumpe"},
		[]any{},
		[]any{"B", "4712 ", 4713},
	)

	ds, err := Decode(buf, FormatXLSX, Options{Sheet: DefaultSheet})
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"A", "B"}, ds.Categories())
	assert.Equal(t, "4711", ds.At(0).A)
	assert.Equal(t, "4712", ds.At(0).B)
	assert.Equal(t, "4712", ds.At(1).A)
	assert.Equal(t, "", ds.At(1).Values[3])
	assert.Equal(t, []int{1, 2}, []int{ds.At(0).Row, ds.At(1).Row}, "blank rows are not counted")
}

func TestReadXLSXMissingSheet(t *testing.T) {
	buf := workbook(t, "Other", []any{"BTYP", "M_NR", "Z_MNR"})

	_, err := ReadXLSX(buf, DefaultSheet)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSource))
	assert.Contains(t, err.Error(), "Other")
}

func TestReadXLSXEmptySheet(t *testing.T) {
	buf := workbook(t, DefaultSheet)

	_, err := ReadXLSX(buf, DefaultSheet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestReadXLSXDefaultsToFirstSheet(t *testing.T) {
	// NewFile always starts with Sheet1, which stays first in the list.
	buf := workbook(t, "Sheet1", []any{"BTYP", "M_NR", "Z_MNR"}, []any{"A", "1", "2"})

	tbl, err := ReadXLSX(buf, "")
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 1)
}
