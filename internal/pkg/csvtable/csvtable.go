// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package csvtable splits decoded CSV text into rows of string fields.
//
// Rows may have differing field counts: statement exports interleave data rows
// with shorter summary rows, and deciding which rows to keep is left to the caller.
// Quoting is strict, and a structurally broken file fails the whole parse.
package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is the parsed content of a CSV document.
type Table struct {
	// Header is the header row, or nil if the document was parsed without one.
	Header []string
	// ExpectedWidth is the number of fields in Header, or 0 without a header.
	ExpectedWidth int
	// Rows are the data rows in document order, excluding the header.
	Rows [][]string
}

// MalformedInputError is returned when the CSV structure cannot be parsed.
type MalformedInputError struct {
	// Line is the 1-based line on which the error was detected.
	Line int
	// Err is the underlying parse error.
	Err error
}

// Error implements error.
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed CSV input on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Parse parses text as comma-separated values.
//
// If hasHeader is true, the first row is consumed as the header.
func Parse(text string, hasHeader bool) (*Table, error) {
	csvReader := csv.NewReader(strings.NewReader(text))
	// Allow variable number of fields per record (summary rows are shorter).
	csvReader.FieldsPerRecord = -1

	table := &Table{}
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newMalformedInputError(err)
		}
		if hasHeader && table.Header == nil {
			table.Header = trimFields(record)
			table.ExpectedWidth = len(record)
			continue
		}
		table.Rows = append(table.Rows, trimFields(record))
	}
	return table, nil
}

// AcceptsWidth reports whether a row of the given width should be ingested.
//
// Without a header every width is accepted.
func (t *Table) AcceptsWidth(width int) bool {
	return t.ExpectedWidth == 0 || width == t.ExpectedWidth
}

func newMalformedInputError(err error) error {
	var parseError *csv.ParseError
	if errors.As(err, &parseError) {
		return &MalformedInputError{Line: parseError.Line, Err: parseError.Err}
	}
	return &MalformedInputError{Err: err}
}

// trimFields trims surrounding whitespace, including the full-width space
// that some exports pad numeric columns with.
func trimFields(record []string) []string {
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
	return record
}
