// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet reads vocabulary CSV files into a types.RawTable.
//
// Every cell is trimmed and normalised to Unicode NFC so that text pasted
// from spreadsheets in decomposed form compares equal to typed text. A
// leading UTF-8 byte order mark, as written by spreadsheet exports, is
// dropped.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/vocab-deck/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile loads the whole CSV file at path.
func ReadFile(path string) (types.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RawTable{}, &types.FileError{Op: "read", Path: path, Err: err}
	}
	table, err := Read(bytes.NewReader(data))
	if err != nil {
		var fe *types.FileError
		if errors.As(err, &fe) && fe.Path == "" {
			fe.Path = path
		}
		return types.RawTable{}, err
	}
	return table, nil
}

// Read parses CSV from r. Records may have any number of fields; quoting
// follows RFC 4180.
func Read(r io.Reader) (types.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.RawTable{}, &types.FileError{Op: "read", Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	var table types.RawTable
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return types.RawTable{}, types.Formatf("malformed CSV at line %d: %v", pe.Line, pe.Err)
			}
			return types.RawTable{}, fmt.Errorf("reading CSV: %w", err)
		}
		table.Rows = append(table.Rows, cleanRow(record))
	}
	return table, nil
}

func cleanRow(record []string) types.Row {
	row := make(types.Row, len(record))
	for i, cell := range record {
		row[i] = CleanCell(cell)
	}
	return row
}

// CleanCell trims surrounding whitespace and normalises to NFC.
func CleanCell(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
