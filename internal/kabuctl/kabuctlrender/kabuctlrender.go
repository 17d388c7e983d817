// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package kabuctlrender turns record fields into labeled, formatted table rows.
//
// The renderer is pure: it holds only an immutable label table and a logger,
// and every call builds a new value.
package kabuctlrender

import (
	"fmt"
	"html"
	"log/slog"
	"maps"
	"math/big"
	"strings"

	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrecord"
	"github.com/bufdev/kabuctl/internal/pkg/coerce"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	// RowClassGroupTotal marks a per-group total row.
	RowClassGroupTotal = "group-total"
	// RowClassGrandTotal marks a total row aggregating every group.
	RowClassGrandTotal = "grand-total"

	negativeClass     = "negative"
	missingLabelClass = "missing-label"
)

// MissingLabelError is returned when a field has no display label.
type MissingLabelError struct {
	Name string
}

// Error implements error.
func (e *MissingLabelError) Error() string {
	return fmt.Sprintf("no display label configured for field %q", e.Name)
}

// LabelTable maps internal field names to display labels.
//
// A LabelTable is never modified after construction and is safe to share.
type LabelTable struct {
	labels map[string]string
}

// NewLabelTable returns a new LabelTable holding a copy of labels.
func NewLabelTable(labels map[string]string) *LabelTable {
	return &LabelTable{
		labels: maps.Clone(labels),
	}
}

// Label returns the display label for the field name.
func (l *LabelTable) Label(name string) (string, bool) {
	label, ok := l.labels[name]
	return label, ok
}

// Len returns the number of labels.
func (l *LabelTable) Len() int {
	return len(l.labels)
}

// HeaderCell is a column header.
type HeaderCell struct {
	Name  string
	Label string
	// Missing is set when Label fell back to Name.
	Missing bool
}

// Cell is a formatted field value.
type Cell struct {
	Name string
	// Text is the display text, not yet HTML-escaped. Empty for absent values.
	Text     string
	Negative bool
}

// Row is a formatted table row.
type Row struct {
	// Class is empty for data rows.
	Class string
	// Group is the display form of the group key for total rows, if any.
	Group string
	Cells []Cell
}

// Table is a rendered report.
type Table struct {
	// Kind is the report kind, used in the table class.
	Kind   string
	Header []HeaderCell
	Rows   []Row
}

// Renderer formats headers and rows.
type Renderer struct {
	logger             *slog.Logger
	labels             *LabelTable
	allowMissingLabels bool
}

// RendererOption is an option for a new Renderer.
type RendererOption func(*Renderer)

// WithAllowMissingLabels returns a new RendererOption that renders the raw
// field name for fields without a label instead of failing.
//
// Such headers carry the "missing-label" class and are logged at warn level.
func WithAllowMissingLabels(allowMissingLabels bool) RendererOption {
	return func(renderer *Renderer) {
		renderer.allowMissingLabels = allowMissingLabels
	}
}

// NewRenderer returns a new Renderer.
func NewRenderer(logger *slog.Logger, labels *LabelTable, options ...RendererOption) *Renderer {
	renderer := &Renderer{
		logger: logger,
		labels: labels,
	}
	for _, option := range options {
		option(renderer)
	}
	return renderer
}

// Header looks up the display label of each field name.
func (r *Renderer) Header(names []string) ([]HeaderCell, error) {
	cells := make([]HeaderCell, 0, len(names))
	for _, name := range names {
		label, ok := r.labels.Label(name)
		if !ok {
			if !r.allowMissingLabels {
				return nil, &MissingLabelError{Name: name}
			}
			r.logger.Warn("missing display label, using field name", "field", name)
			cells = append(cells, HeaderCell{Name: name, Label: name, Missing: true})
			continue
		}
		cells = append(cells, HeaderCell{Name: name, Label: label})
	}
	return cells, nil
}

// Row formats the fields of a record.
//
// Data rows and total rows go through the same formatters.
func (r *Renderer) Row(fields []kabuctlrecord.Field, class string, group string) Row {
	cells := make([]Cell, len(fields))
	for i, field := range fields {
		cells[i] = formatField(field)
	}
	return Row{
		Class: class,
		Group: group,
		Cells: cells,
	}
}

// RenderHeader returns the <thead> of a table with the given field names.
func (r *Renderer) RenderHeader(names []string) (string, error) {
	header, err := r.Header(names)
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	writeHeader(&builder, header)
	return builder.String(), nil
}

// RenderRow returns a single <tr> for the fields.
func (r *Renderer) RenderRow(fields []kabuctlrecord.Field, class string) string {
	var builder strings.Builder
	writeRow(&builder, r.Row(fields, class, ""))
	return builder.String()
}

// FormatNumber groups the integer part of a number with commas.
//
// The sign and any fractional part are unchanged. The not-applicable marker
// and text that is not a number are returned as-is. The boolean result reports
// whether the value is negative.
func FormatNumber(value string) (string, bool) {
	cleaned := coerce.CleanNumber(value)
	if cleaned == coerce.NotApplicable {
		return cleaned, false
	}
	number, err := decimal.NewFromString(cleaned)
	if err != nil {
		return value, false
	}
	negative := number.IsNegative()
	sign := ""
	unsigned := cleaned
	if strings.HasPrefix(cleaned, "-") || strings.HasPrefix(cleaned, "+") {
		sign = cleaned[:1]
		unsigned = cleaned[1:]
	}
	integerPart, fractionPart, hasFraction := strings.Cut(unsigned, ".")
	// A leading 1 keeps leading zeros through big.Int, and is removed after grouping.
	integer, ok := new(big.Int).SetString("1"+integerPart, 10)
	if !ok {
		// Exponent forms.
		return value, negative
	}
	grouped := strings.TrimPrefix(strings.TrimPrefix(humanize.BigComma(integer), "1"), ",")
	formatted := sign + grouped
	if hasFraction {
		formatted += "." + fractionPart
	}
	return formatted, negative
}

// FormatDate converts a "YYYY-MM-DD" date to the "YYYY/MM/DD" display form.
func FormatDate(value string) string {
	return strings.ReplaceAll(value, "-", "/")
}

// HTML returns the table as an HTML fragment.
func (t *Table) HTML() string {
	var builder strings.Builder
	builder.WriteString(`<table class="report report-`)
	builder.WriteString(html.EscapeString(t.Kind))
	builder.WriteString(`">`)
	writeHeader(&builder, t.Header)
	builder.WriteString("<tbody>")
	for _, row := range t.Rows {
		writeRow(&builder, row)
	}
	builder.WriteString("</tbody></table>")
	return builder.String()
}

// Labels returns the header labels.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.Header))
	for i, cell := range t.Header {
		labels[i] = cell.Label
	}
	return labels
}

// TextRows returns the display text of every row.
func (t *Table) TextRows() [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		texts := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			texts[j] = cell.Text
		}
		rows[i] = texts
	}
	return rows
}

// *** PRIVATE ***

func formatField(field kabuctlrecord.Field) Cell {
	cell := Cell{Name: field.Name}
	if field.Value == nil {
		return cell
	}
	switch field.Kind {
	case kabuctlrecord.KindDate:
		cell.Text = FormatDate(*field.Value)
	case kabuctlrecord.KindNumber:
		cell.Text, cell.Negative = FormatNumber(*field.Value)
	default:
		cell.Text = *field.Value
	}
	return cell
}

func writeHeader(builder *strings.Builder, header []HeaderCell) {
	builder.WriteString("<thead><tr>")
	for _, cell := range header {
		class := cell.Name
		if cell.Missing {
			class += " " + missingLabelClass
		}
		builder.WriteString(`<th class="`)
		builder.WriteString(html.EscapeString(class))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(cell.Label))
		builder.WriteString("</th>")
	}
	builder.WriteString("</tr></thead>")
}

func writeRow(builder *strings.Builder, row Row) {
	builder.WriteString("<tr")
	if row.Class != "" {
		builder.WriteString(` class="`)
		builder.WriteString(html.EscapeString(row.Class))
		builder.WriteString(`"`)
	}
	if row.Group != "" {
		builder.WriteString(` data-group="`)
		builder.WriteString(html.EscapeString(row.Group))
		builder.WriteString(`"`)
	}
	builder.WriteString(">")
	for _, cell := range row.Cells {
		class := cell.Name
		if cell.Negative {
			class += " " + cell.Name + "-" + negativeClass
		}
		builder.WriteString(`<td class="`)
		builder.WriteString(html.EscapeString(class))
		builder.WriteString(`">`)
		if cell.Negative {
			builder.WriteString(`<span class="` + negativeClass + `">`)
			builder.WriteString(html.EscapeString(cell.Text))
			builder.WriteString("</span>")
		} else {
			builder.WriteString(html.EscapeString(cell.Text))
		}
		builder.WriteString("</td>")
	}
	builder.WriteString("</tr>")
}
