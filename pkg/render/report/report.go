// Package report writes connection lists, identifier lists and source rows
// as text, tables, CSV, Markdown or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/matzehuels/prgraph/pkg/connectivity"
	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// NoneFound is printed in place of an empty result.
const NoneFound = "no connections found"

// ParseFormat validates name against the formats a command accepts.
func ParseFormat(name string, allowed ...Format) (Format, error) {
	if name == "md" {
		name = string(FormatMarkdown)
	}
	for _, f := range allowed {
		if Format(name) == f {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, f := range allowed {
		names[i] = string(f)
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"invalid format %q: must be one of %s", name, strings.Join(names, ", "))
}

// WriteConnections writes a two-hop result.
//
// The text form lists level 1 and, indented below each entry, its level-2
// identifiers. An empty level 1 is written as an explicit NoneFound line,
// never as empty output.
func WriteConnections(w io.Writer, res connectivity.Result, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatText, "":
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "connections cannot be written as %s", format)
	}

	if res.Empty() {
		_, err := fmt.Fprintf(w, "%s: %s\n", res.Query, NoneFound)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", res.Query)
	for i, p := range res.Level1 {
		branch, indent := "├── ", "│   "
		if i == len(res.Level1)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintf(&b, "%s%s\n", branch, p)
		next := res.Level2[p]
		for j, q := range next {
			leaf := "├── "
			if j == len(next)-1 {
				leaf = "└── "
			}
			fmt.Fprintf(&b, "%s%s%s\n", indent, leaf, q)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteList writes a flat list of values, one per line in text form.
func WriteList(w io.Writer, items []string, format Format) error {
	switch format {
	case FormatJSON:
		if items == nil {
			items = []string{}
		}
		return writeJSON(w, items)
	case FormatText, "":
		for _, s := range items {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "lists cannot be written as %s", format)
	}
}

// RowsView is the rows of a dataset matching an identifier in either column.
type RowsView struct {
	ID      string
	Columns []string
	ByA     []dataset.Record
	ByB     []dataset.Record
	Schema  dataset.Schema
}

// WriteRows writes the two row groups of a rows view, each headed by the
// column it matched in.
func WriteRows(w io.Writer, v RowsView, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rowsJSON{
			ID:      v.ID,
			Columns: v.Columns,
			ByA:     values(v.ByA),
			ByB:     values(v.ByB),
		})
	case FormatTable, FormatMarkdown, FormatCSV, FormatText, "":
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "rows cannot be written as %s", format)
	}

	if format == FormatCSV {
		return writeCSV(w, v)
	}

	groups := []struct {
		column  string
		records []dataset.Record
	}{
		{v.Schema.IDA, v.ByA},
		{v.Schema.IDB, v.ByB},
	}
	for i, g := range groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", g.column, v.ID); err != nil {
			return err
		}
		if err := writeTable(w, v.Columns, g.records, format); err != nil {
			return err
		}
	}
	return nil
}

type rowsJSON struct {
	ID      string     `json:"id"`
	Columns []string   `json:"columns"`
	ByA     [][]string `json:"by_a"`
	ByB     [][]string `json:"by_b"`
}

func values(records []dataset.Record) [][]string {
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = r.Values
	}
	return out
}

// writeCSV writes both groups as one table whose first column names the
// identifier column each row matched in.
func writeCSV(w io.Writer, v RowsView) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"MATCH"}
	for _, c := range v.Columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	add := func(column string, records []dataset.Record) {
		for _, r := range records {
			row := table.Row{column}
			for _, c := range r.Values {
				row = append(row, c)
			}
			t.AppendRow(row)
		}
	}
	add(v.Schema.IDA, v.ByA)
	add(v.Schema.IDB, v.ByB)

	t.RenderCSV()
	return nil
}

func writeTable(w io.Writer, columns []string, records []dataset.Record, format Format) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, r := range records {
		row := make(table.Row, len(r.Values))
		for i, v := range r.Values {
			row[i] = v
		}
		t.AppendRow(row)
	}

	if format == FormatMarkdown {
		t.RenderMarkdown()
		return nil
	}
	t.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(records))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
