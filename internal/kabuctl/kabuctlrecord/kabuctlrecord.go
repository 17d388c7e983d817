// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package kabuctlrecord defines the typed rows of the supported statement reports.
//
// Every field of a record is independently optional: a cell that is missing or
// fails to parse leaves only that field absent. A record is either a data row,
// built from a CSV row with all total fields absent, or a synthetic total row,
// built from aggregated numbers with all other fields absent.
package kabuctlrecord

import (
	"strconv"

	"github.com/bufdev/kabuctl/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

// Kind determines how a field value is formatted for display.
type Kind int

const (
	// KindText values are displayed as-is.
	KindText Kind = iota + 1
	// KindDate values are dates in "YYYY-MM-DD" form.
	KindDate
	// KindNumber values are decimal numbers, or the not-applicable marker.
	KindNumber
)

// Field is a named, optional record value in its display-independent string form.
type Field struct {
	// Name is the internal field name, used for label lookup and CSS classes.
	Name string
	// Kind selects the display formatter.
	Kind Kind
	// Value is nil when the field is absent.
	Value *string
}

// Record is a row of a report.
type Record interface {
	// Fields returns every field of the record in display order.
	//
	// The names and kinds are the same for every record of a type.
	Fields() []Field
}

// FieldNames returns the names of the fields of a record, in display order.
func FieldNames(record Record) []string {
	fields := record.Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name
	}
	return names
}

func textField(name string, value *string) Field {
	return Field{Name: name, Kind: KindText, Value: value}
}

func numberTextField(name string, value *string) Field {
	return Field{Name: name, Kind: KindNumber, Value: value}
}

func dateField(name string, value *xtime.Date) Field {
	field := Field{Name: name, Kind: KindDate}
	if value != nil {
		s := value.String()
		field.Value = &s
	}
	return field
}

func intField(name string, value *int64) Field {
	field := Field{Name: name, Kind: KindNumber}
	if value != nil {
		s := strconv.FormatInt(*value, 10)
		field.Value = &s
	}
	return field
}

// decimalField keeps the fractional digits of the source, including trailing zeros.
func decimalField(name string, value *decimal.Decimal) Field {
	field := Field{Name: name, Kind: KindNumber}
	if value != nil {
		s := value.String()
		if exponent := value.Exponent(); exponent < 0 {
			s = value.StringFixed(-exponent)
		}
		field.Value = &s
	}
	return field
}

func int64Ptr(value int64) *int64 {
	return &value
}
