package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/matzehuels/prgraph/pkg/errors"
)

// Default column names of the PR relation export.
const (
	DefaultCategoryColumn = "BTYP"
	DefaultIDAColumn      = "M_NR"
	DefaultIDBColumn      = "Z_MNR"
)

// Schema names the three columns the core reads. All other columns are
// carried as opaque payload.
type Schema struct {
	Category string `json:"category"` // Classifier used by Filter
	IDA      string `json:"id_a"`     // First identifier column
	IDB      string `json:"id_b"`     // Second identifier column
}

// DefaultSchema returns the BTYP / M_NR / Z_MNR schema.
func DefaultSchema() Schema {
	return Schema{
		Category: DefaultCategoryColumn,
		IDA:      DefaultIDAColumn,
		IDB:      DefaultIDBColumn,
	}
}

// Validate checks that every column name is usable.
func (s Schema) Validate() error {
	for _, name := range s.required() {
		if err := errors.ValidateColumnName(name); err != nil {
			return err
		}
	}
	if s.IDA == s.IDB {
		return errors.New(errors.ErrCodeInvalidColumn, "identifier columns must differ (both are %q)", s.IDA)
	}
	return nil
}

func (s Schema) required() []string {
	return []string{s.Category, s.IDA, s.IDB}
}

// Record is one row of a Dataset.
//
// Category, A and B are normalized; Values holds every cell of the source
// row exactly as read, padded to the header width. Gateways drop blank lines
// before building the dataset, so Row counts only the rows that were kept. Records are shared between
// a Dataset and its filtered views and must be treated as read-only.
type Record struct {
	Row      int      // 1-based position among the data rows kept by the gateway
	Category string   // Normalized category value
	A        string   // Normalized identifier from Schema.IDA
	B        string   // Normalized identifier from Schema.IDB
	Values   []string // Raw cells, one per column
}

// Dataset is an immutable, ordered collection of Records sharing one header.
//
// The zero value is not usable; build one with [New]. A Dataset is safe for
// concurrent reads since no method mutates it.
type Dataset struct {
	columns  []string
	schema   Schema
	records  []Record
	version  string
	category string
	filtered bool
}

// New validates the header against schema and builds a Dataset from rows.
//
// Header cells are trimmed of surrounding whitespace before matching, and
// matching is case-sensitive. If a required column is missing, New returns an
// [errors.SchemaError] naming the first missing column (checked in the order
// category, first identifier, second identifier) and listing the available
// columns. Rows shorter than the header are padded with empty cells.
func New(header []string, rows [][]string, schema Schema) (*Dataset, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	pos := make([]int, 3)
	for i, name := range schema.required() {
		idx := slices.Index(columns, name)
		if idx < 0 {
			return nil, &errors.SchemaError{Missing: name, Available: slices.Clone(columns)}
		}
		pos[i] = idx
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		values := make([]string, len(columns))
		copy(values, row)
		records = append(records, Record{
			Row:      i + 1,
			Category: Normalize(values[pos[0]]),
			A:        Normalize(values[pos[1]]),
			B:        Normalize(values[pos[2]]),
			Values:   values,
		})
	}

	return &Dataset{
		columns: columns,
		schema:  schema,
		records: records,
		version: contentVersion(columns, schema, records),
	}, nil
}

// Columns returns a copy of the trimmed header.
func (d *Dataset) Columns() []string { return slices.Clone(d.columns) }

// Schema returns the schema the dataset was validated against.
func (d *Dataset) Schema() Schema { return d.schema }

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record.
func (d *Dataset) At(i int) Record { return d.records[i] }

// Records returns a copy of the record slice.
func (d *Dataset) Records() []Record { return slices.Clone(d.records) }

// Version identifies the dataset content. Two datasets built from the same
// header, schema and cells share a version; a filtered view derives its
// version from its parent and the selected category.
func (d *Dataset) Version() string { return d.version }

// Category reports the category a filtered view was restricted to.
// The second result is false for an unfiltered dataset.
func (d *Dataset) Category() (string, bool) { return d.category, d.filtered }

// Filter returns the records whose normalized category equals category.
//
// The comparison is exact and case-sensitive. The result is a new Dataset
// sharing the header and schema; the receiver is not modified. A category
// that matches nothing yields an empty Dataset, not an error.
func (d *Dataset) Filter(category string) *Dataset {
	kept := make([]Record, 0)
	for _, r := range d.records {
		if r.Category == category {
			kept = append(kept, r)
		}
	}
	return &Dataset{
		columns:  d.columns,
		schema:   d.schema,
		records:  kept,
		version:  derivedVersion(d.version, "category", category),
		category: category,
		filtered: true,
	}
}

// Categories returns the sorted distinct non-empty category values.
// These are the selectable filter options; call it on the unfiltered dataset.
func (d *Dataset) Categories() []string {
	seen := make(map[string]struct{})
	for _, r := range d.records {
		if r.Category != "" {
			seen[r.Category] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Identifiers returns the sorted union of non-empty identifiers found in
// either identifier column.
func (d *Dataset) Identifiers() []string {
	seen := make(map[string]struct{})
	for _, r := range d.records {
		if r.A != "" {
			seen[r.A] = struct{}{}
		}
		if r.B != "" {
			seen[r.B] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Rows returns the records whose first identifier equals id and those whose
// second identifier equals id, each in dataset order. id is normalized first.
func (d *Dataset) Rows(id string) (byA, byB []Record) {
	id = Normalize(id)
	byA, byB = []Record{}, []Record{}
	if id == "" {
		return byA, byB
	}
	for _, r := range d.records {
		if r.A == id {
			byA = append(byA, r)
		}
		if r.B == id {
			byB = append(byB, r)
		}
	}
	return byA, byB
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func contentVersion(columns []string, schema Schema, records []Record) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	for _, c := range columns {
		write(c)
	}
	write(schema.Category)
	write(schema.IDA)
	write(schema.IDB)
	for _, r := range records {
		for _, v := range r.Values {
			write(v)
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func derivedVersion(parent string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(parent))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
