// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the vocab-deck pipeline:
// the raw table read from CSV, the topic blocks and vocabulary entries
// discovered in it, the deck produced from them, configuration, and the
// error types surfaced to the user.
package types

// GroupWidth is the number of columns in one topic block:
// word, translation, and script-form.
const GroupWidth = 3

// Row is one CSV record as trimmed text cells.
type Row []string

// Cell returns the cell at col, or "" when the row is shorter than col+1.
func (r Row) Cell(col int) string {
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// RawTable is a parsed CSV file. Row 0 holds topic labels, row 1 holds
// column headers, rows 2 and later hold vocabulary. Rows may differ in length.
type RawTable struct {
	Rows []Row
}

// Len returns the number of rows.
func (t RawTable) Len() int { return len(t.Rows) }

// Width returns the length of the widest row.
func (t RawTable) Width() int {
	w := 0
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// NewRawTable builds a table from plain string slices.
func NewRawTable(rows ...[]string) RawTable {
	t := RawTable{Rows: make([]Row, len(rows))}
	for i, r := range rows {
		t.Rows[i] = Row(r)
	}
	return t
}
