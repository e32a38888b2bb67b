// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deck turns a vocabulary table into a flashcard deck.
//
// The table layout is fixed: row 0 carries one topic label every three
// columns, row 1 carries column headers, and every later row carries
// word/translation/script-form triples under each topic. Parse discovers
// topics and entries; Build lays them out as cards in per-topic sub-decks.
// Neither performs I/O.
package deck

import (
	"fmt"

	"github.com/pdiddy/vocab-deck/pkg/types"
)

const (
	topicRow = 0
	firstRow = 2
)

// Sheet is the parsed structure of a vocabulary table.
type Sheet struct {
	// Blocks lists every column group, including skipped ones with an empty label.
	Blocks []types.TopicBlock `json:"blocks" yaml:"blocks"`

	// Topics holds entries grouped by label in order of first appearance.
	Topics []types.Topic `json:"topics" yaml:"topics"`

	// Warnings describes data that was ignored.
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// EntryCount returns the number of entries across all topics.
func (s *Sheet) EntryCount() int {
	n := 0
	for _, t := range s.Topics {
		n += len(t.Entries)
	}
	return n
}

// Parse validates the table layout and groups vocabulary triples under
// their topic labels.
//
// A group whose label is empty is skipped and scanning continues with the
// next group. A row whose word cell is empty contributes nothing to that
// group but does not end the group; topics may have lists of different
// length. Cells missing from short rows read as empty.
func Parse(table types.RawTable) (*Sheet, error) {
	if table.Len() < firstRow {
		return nil, types.Formatf("table has %d row(s); need a topic row and a column header row", table.Len())
	}
	header := table.Rows[topicRow]
	if header.Cell(0) == "" {
		return nil, types.Formatf("row 1 column 1 is empty; the first cell must hold a topic label")
	}

	groups := (table.Width() + types.GroupWidth - 1) / types.GroupWidth
	sheet := &Sheet{}
	byLabel := make(map[string]int)

	for g := 0; g < groups; g++ {
		col := g * types.GroupWidth
		block := types.TopicBlock{Index: g, Column: col, Label: header.Cell(col)}
		sheet.Blocks = append(sheet.Blocks, block)

		if block.Label == "" {
			if n := countPopulated(table, col); n > 0 {
				sheet.Warnings = append(sheet.Warnings, fmt.Sprintf(
					"columns %s: %d row(s) of data without a topic label were ignored",
					ColumnRange(block), n))
			}
			continue
		}

		idx, ok := byLabel[block.Label]
		if !ok {
			idx = len(sheet.Topics)
			byLabel[block.Label] = idx
			sheet.Topics = append(sheet.Topics, types.Topic{Label: block.Label})
		}
		topic := &sheet.Topics[idx]
		topic.Blocks = append(topic.Blocks, block)

		for r := firstRow; r < table.Len(); r++ {
			row := table.Rows[r]
			entry := types.VocabEntry{
				Word:        row.Cell(col),
				Translation: row.Cell(col + 1),
				Script:      row.Cell(col + 2),
				Row:         r,
			}
			if entry.Word == "" {
				if entry.Translation != "" || entry.Script != "" {
					sheet.Warnings = append(sheet.Warnings, fmt.Sprintf(
						"row %d, topic %q: word cell is empty, entry skipped", r+1, block.Label))
				}
				continue
			}
			topic.Entries = append(topic.Entries, entry)
		}
	}

	if len(sheet.Topics) == 0 {
		return nil, types.Formatf("no topic labels found in row 1")
	}
	return sheet, nil
}

// countPopulated counts data rows with any non-empty cell in the group at col.
func countPopulated(table types.RawTable, col int) int {
	n := 0
	for r := firstRow; r < table.Len(); r++ {
		row := table.Rows[r]
		for c := col; c < col+types.GroupWidth; c++ {
			if row.Cell(c) != "" {
				n++
				break
			}
		}
	}
	return n
}

// ColumnRange names the spreadsheet columns a block spans, e.g. "D-F".
func ColumnRange(b types.TopicBlock) string {
	return columnName(b.Column) + "-" + columnName(b.Column+types.GroupWidth-1)
}

// columnName converts a zero-based column index to spreadsheet letters.
func columnName(col int) string {
	name := ""
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}
