package source

import (
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/prgraph/pkg/errors"
)

// ReadXLSX reads one worksheet of a workbook. The first row is the header.
//
// An empty sheet name selects the first worksheet. Cells are read as
// displayed, so a numeric identifier formatted as "General" yields "4711"
// rather than "4711.0". Rows whose cells are all blank are skipped.
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, errors.Source(err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return Table{}, errors.New(errors.ErrCodeSource, "workbook has no worksheets")
		}
		sheet = sheets[0]
	}
	if !slices.Contains(sheets, sheet) {
		return Table{}, errors.New(errors.ErrCodeSource,
			"sheet %q not found; available sheets: [%s]", sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, errors.Source(err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return Table{}, errors.New(errors.ErrCodeSource, "sheet %q is empty: no header row", sheet)
	}

	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if !blank(row) {
			body = append(body, row)
		}
	}
	return Table{Header: rows[0], Rows: body}, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
