// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package table turns uploaded CSV bytes into a header + rows structure.
//
// The delimiter is not declared by the uploader. It is guessed from the
// first non-empty line: if that line contains ';' the file is read as
// semicolon separated, otherwise as comma separated. This is a heuristic,
// not a sniffer: a comma separated file whose header contains a ';' inside
// a quoted field is split on the wrong character.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrParse is returned for input that cannot be turned into a table.
var ErrParse = errors.New("parse error")

// Table is a parsed CSV file. Cells are kept as text; numeric conversion
// is done by the consumers that know which columns are numeric.
type Table struct {
	Header    []string
	Rows      [][]string
	Delimiter rune
}

// Parse decodes raw bytes leniently as UTF-8 (invalid sequences and a
// leading BOM are dropped) and reads them as CSV.
func Parse(raw []byte) (*Table, error) {
	text := strings.ToValidUTF8(string(raw), "")
	text = strings.TrimPrefix(text, "\ufeff")

	text = skipBlankLines(text)
	delim := DetectDelimiter(text)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no columns found", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}

	t := &Table{Delimiter: delim, Header: make([]string, 0, len(header))}
	for _, name := range header {
		t.Header = append(t.Header, cleanName(name))
	}
	if len(t.Header) == 0 || (len(t.Header) == 1 && t.Header[0] == "") {
		return nil, fmt.Errorf("%w: no columns found", ErrParse)
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}

// DetectDelimiter returns ';' if the first non-empty line contains one,
// ',' otherwise.
func DetectDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, ";") {
			return ';'
		}
		return ','
	}
	return ','
}

// skipBlankLines drops whitespace-only lines before the header so they
// are not read as a one-column record.
func skipBlankLines(text string) string {
	for text != "" {
		line, rest, found := strings.Cut(text, "\n")
		if strings.TrimSpace(line) != "" {
			return text
		}
		if !found {
			return ""
		}
		text = rest
	}
	return text
}

// cleanName strips surrounding whitespace and stray quote characters.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"'`)
	return strings.TrimSpace(name)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the column with exactly this name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Find returns the first column index whose name satisfies match, or -1.
func (t *Table) Find(match func(name string) bool) int {
	for i, h := range t.Header {
		if match(h) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at (row, col). Short rows read as "".
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	rec := t.Rows[row]
	if col >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[col])
}

// Column returns all cells of one column.
func (t *Table) Column(col int) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, col)
	}
	return out
}
