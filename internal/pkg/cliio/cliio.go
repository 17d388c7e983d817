// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package cliio provides output formatting for CLI commands (HTML, table, CSV, JSON).
package cliio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"
)

// Format represents the output format for CLI commands.
type Format string

const (
	// FormatHTML is the default HTML output format.
	FormatHTML Format = "html"
	// FormatTable is the aligned plain text table output format.
	FormatTable Format = "table"
	// FormatCSV is the CSV output format.
	FormatCSV Format = "csv"
	// FormatJSON is the JSON output format.
	FormatJSON Format = "json"
)

var htmlDocumentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// ParseFormat parses a string into a Format, returning an error for unknown formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "html":
		return FormatHTML, nil
	case "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q, must be one of: html, table, csv, json", s)
	}
}

// WriteTableSections writes tabular data using tabwriter for aligned columns.
//
// Sections are separated by a blank line, all through the same tabwriter so
// columns align across sections.
func WriteTableSections(writer io.Writer, headers []string, sections [][][]string) error {
	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for i, rows := range sections {
		if i > 0 {
			// Tabs keep the blank line part of the aligned block.
			if _, err := fmt.Fprintln(tw, strings.Join(make([]string, len(headers)), "\t")); err != nil {
				return err
			}
		}
		for _, row := range rows {
			if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

// WriteCSVRecords writes CSV records to the writer.
func WriteCSVRecords(writer io.Writer, records [][]string) error {
	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.WriteAll(records); err != nil {
		return err
	}
	csvWriter.Flush()
	return nil
}

// WriteJSON writes objects as JSON with newlines between each object.
func WriteJSON[O any](writer io.Writer, objects ...O) error {
	for _, object := range objects {
		data, err := json.Marshal(object)
		if err != nil {
			return err
		}
		if _, err := writer.Write(data); err != nil {
			return err
		}
		if _, err := writer.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}

// WriteHTML writes an HTML fragment followed by a newline.
//
// If title is not empty, the fragment is wrapped in a complete UTF-8 document
// with that title. The fragment is written unescaped and must be trusted.
func WriteHTML(writer io.Writer, fragment string, title string) error {
	if title == "" {
		_, err := io.WriteString(writer, fragment+"\n")
		return err
	}
	return htmlDocumentTemplate.Execute(
		writer,
		struct {
			Title string
			Body  template.HTML
		}{
			Title: title,
			Body:  template.HTML(fragment),
		},
	)
}
