package model

import "fmt"

// KeyColumn is the synthetic column appended to a dataset once identity
// keys have been assigned. It never appears in rendered output.
const KeyColumn = "__KEY__"

// Row maps column names to string cell values. An empty string represents
// a null cell; rows never hold language-native nulls.
type Row map[string]string

// Dataset is a normalized, all-string rectangular table. Every row carries
// exactly the columns listed in Columns. Datasets are built once by the
// loader and are immutable afterward, except for the single synthetic key
// column added by AssignKeys.
type Dataset struct {
	Name      string   // display name, usually the file base name without extension
	Path      string   // source file path
	Sheet     string   // sheet name for workbook sources, "" for delimited files
	HeaderRow int      // zero-based index of the resolved header row
	Columns   []string // declared header, unique names, in original order
	Rows      []Row
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the dataset declares the given column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AssignKeys appends the synthetic key column, one key per row.
// The keys slice must be exactly Len() long.
func (d *Dataset) AssignKeys(keys []string) error {
	if len(keys) != len(d.Rows) {
		return fmt.Errorf("assign keys: %d keys for %d rows", len(keys), len(d.Rows))
	}
	if !d.HasColumn(KeyColumn) {
		d.Columns = append(d.Columns, KeyColumn)
	}
	for i := range d.Rows {
		d.Rows[i][KeyColumn] = keys[i]
	}
	return nil
}

// Keyed reports whether identity keys have been assigned.
func (d *Dataset) Keyed() bool {
	return d.HasColumn(KeyColumn)
}

// Key returns the identity key of row i, or "" if keys were never assigned.
func (d *Dataset) Key(i int) string {
	return d.Rows[i][KeyColumn]
}

// KeySet returns the set of distinct identity keys.
func (d *Dataset) KeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Rows))
	for i := range d.Rows {
		set[d.Key(i)] = struct{}{}
	}
	return set
}

// StripKey returns a copy of row r without the synthetic key column.
// Renderers use it so the internal key never leaks into reports.
func StripKey(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		if k != KeyColumn {
			out[k] = v
		}
	}
	return out
}
