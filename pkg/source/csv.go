package source

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/prgraph/pkg/errors"
)

const bom = "\uFEFF"

// ReadCSV reads delimited text whose first record is the header.
//
// Records may have differing field counts; short rows are padded later by
// dataset.New. A leading UTF-8 byte order mark, as written by spreadsheet
// exports, is removed from the first header cell.
func ReadCSV(r io.Reader, comma rune) (Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, errors.Source(err, "parse delimited text")
	}
	if len(records) == 0 {
		return Table{}, errors.New(errors.ErrCodeSource, "delimited text is empty: no header row")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	return Table{Header: header, Rows: records[1:]}, nil
}
