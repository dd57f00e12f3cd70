package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/prgraph/pkg/dataset"
)

// FormatVersion is the snapshot format written by WriteJSON.
const FormatVersion = 1

type snapshot struct {
	Format  int             `json:"format"`
	Schema  *dataset.Schema `json:"schema,omitempty"`
	Columns []string        `json:"columns"`
	Rows    [][]string      `json:"rows"`
}

// WriteJSON encodes a dataset snapshot as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(ds *dataset.Dataset, w io.Writer) error {
	schema := ds.Schema()
	out := snapshot{
		Format:  FormatVersion,
		Schema:  &schema,
		Columns: ds.Columns(),
		Rows:    make([][]string, 0, ds.Len()),
	}
	for _, r := range ds.Records() {
		out.Rows = append(out.Rows, r.Values)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a dataset snapshot to a JSON file at path.
func ExportJSON(ds *dataset.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteJSON(ds, f); err != nil {
		return err
	}
	return f.Close()
}
