// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package coerce converts raw CSV fields into typed optional values.
//
// Every coercer takes a *string and returns a pointer to the typed value.
// A nil input means the column was absent and yields nil without logging.
// An input that does not parse yields nil and a log line: one bad cell must
// never abort the rest of its row or file.
package coerce

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bufdev/kabuctl/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

// NotApplicable is the marker exports use for cells that have no value.
const NotApplicable = "-"

// FailureError describes a field that could not be coerced.
type FailureError struct {
	// Kind is the target type (e.g., "date", "integer").
	Kind string
	// Value is the raw field value.
	Value string
	// Err is the underlying parse error.
	Err error
}

// Error implements error.
func (e *FailureError) Error() string {
	return fmt.Sprintf("could not parse %s %q: %v", e.Kind, e.Value, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *FailureError) Unwrap() error {
	return e.Err
}

// Column returns a pointer to row[index], or nil if the row is too short.
func Column(row []string, index int) *string {
	if index < 0 || index >= len(row) {
		return nil
	}
	return &row[index]
}

// String returns a copy of the raw value.
func String(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := *raw
	return &value
}

// Date parses a "YYYY/MM/DD" or "YYYY-MM-DD" date.
func Date(logger *slog.Logger, raw *string) *xtime.Date {
	if raw == nil {
		return nil
	}
	date, err := xtime.ParseDate(strings.TrimSpace(*raw))
	if err != nil {
		logFailure(logger, &FailureError{Kind: "date", Value: *raw, Err: err})
		return nil
	}
	return &date
}

// Int parses an integer, ignoring thousands separators.
func Int(logger *slog.Logger, raw *string) *int64 {
	if raw == nil {
		return nil
	}
	value, err := strconv.ParseInt(CleanNumber(*raw), 10, 64)
	if err != nil {
		logFailure(logger, &FailureError{Kind: "integer", Value: *raw, Err: err})
		return nil
	}
	return &value
}

// Decimal parses a decimal number, ignoring thousands separators.
//
// Decimals are used instead of float64 so that the source digits survive
// both summation and rendering.
func Decimal(logger *slog.Logger, raw *string) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	value, err := decimal.NewFromString(CleanNumber(*raw))
	if err != nil {
		logFailure(logger, &FailureError{Kind: "decimal", Value: *raw, Err: err})
		return nil
	}
	return &value
}

// CleanNumber strips thousands separators and surrounding whitespace (e.g., " -2,290 " → "-2290").
func CleanNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

func logFailure(logger *slog.Logger, failureError *FailureError) {
	// The not-applicable marker and empty cells are routine in exports.
	if value := strings.TrimSpace(failureError.Value); value == NotApplicable || value == "" {
		logger.Debug("field not applicable", "kind", failureError.Kind, "value", failureError.Value)
		return
	}
	logger.Warn("field coercion failed", "error", failureError)
}
