// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package kabuctlreport groups, aggregates, and renders statement reports.
//
// A Manager is created per request by NewManager, fed one parsed table with
// Ingest, and rendered with Render. Managers are not safe for concurrent use,
// and nothing is shared between them except the immutable Renderer.
package kabuctlreport

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrender"
	"github.com/bufdev/kabuctl/internal/pkg/csvtable"
	"github.com/shopspring/decimal"
)

// Kind is a report kind.
type Kind string

const (
	// KindDividend is the dividend statement report.
	KindDividend Kind = "dividend"
	// KindProfitLoss is the realized profit and loss statement report.
	KindProfitLoss Kind = "profit-loss"
)

// AllKinds returns every report kind.
func AllKinds() []Kind {
	return []Kind{KindDividend, KindProfitLoss}
}

// UnknownReportKindError is returned for an unrecognized report kind.
type UnknownReportKindError struct {
	Kind string
}

// Error implements error.
func (e *UnknownReportKindError) Error() string {
	return fmt.Sprintf("unknown report kind %q, must be one of: dividend, profit-loss", e.Kind)
}

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dividend", "dividends", "dividend_list":
		return KindDividend, nil
	case "profit-loss", "profit_loss", "profit_and_loss":
		return KindProfitLoss, nil
	default:
		return "", &UnknownReportKindError{Kind: s}
	}
}

// State is the lifecycle state of a Manager.
type State int

const (
	// StateEmpty is the state of a new Manager.
	StateEmpty State = iota + 1
	// StateAccumulating is the state after Ingest.
	StateAccumulating
	// StateRendered is the state after Render.
	StateRendered
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAccumulating:
		return "accumulating"
	case StateRendered:
		return "rendered"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Manager accumulates the rows of one report and renders it.
type Manager interface {
	// Kind returns the report kind.
	Kind() Kind
	// State returns the current lifecycle state.
	State() State
	// Ingest coerces and groups the rows of the table.
	//
	// Rows whose width differs from the header width, and records without a
	// group key, are dropped and logged. Ingest never fails.
	Ingest(table *csvtable.Table)
	// Render renders every group accumulated so far.
	//
	// Render may be called more than once and renders the same table each time.
	// The only error is a *kabuctlrender.MissingLabelError.
	Render() (*kabuctlrender.Table, error)
}

// DefaultTaxRate is the combined Japanese income and resident tax rate on capital gains.
var DefaultTaxRate = decimal.RequireFromString("0.20315")

// ManagerOption is an option for a new Manager.
type ManagerOption func(*managerOptions)

// WithTaxRate returns a new ManagerOption that sets the withholding tax rate.
//
// The default is DefaultTaxRate.
func WithTaxRate(taxRate decimal.Decimal) ManagerOption {
	return func(managerOptions *managerOptions) {
		managerOptions.taxRate = taxRate
	}
}

// WithAccountMarkers returns a new ManagerOption that sets the substrings
// identifying taxable and tax-advantaged accounts.
//
// The defaults are "特定" and "NISA". Accounts matching neither are taxable.
func WithAccountMarkers(taxableMarkers []string, taxAdvantagedMarkers []string) ManagerOption {
	return func(managerOptions *managerOptions) {
		managerOptions.taxableMarkers = taxableMarkers
		managerOptions.taxAdvantagedMarkers = taxAdvantagedMarkers
	}
}

// NewManager returns a new, empty Manager for the kind.
//
// Returns a *UnknownReportKindError if the kind is not recognized.
func NewManager(
	logger *slog.Logger,
	kind string,
	renderer *kabuctlrender.Renderer,
	options ...ManagerOption,
) (Manager, error) {
	parsedKind, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	managerOptions := newManagerOptions()
	for _, option := range options {
		option(managerOptions)
	}
	logger = logger.With("kind", string(parsedKind))
	switch parsedKind {
	case KindDividend:
		return newDividendManager(logger, renderer), nil
	case KindProfitLoss:
		return newProfitLossManager(
			logger,
			renderer,
			managerOptions.taxRate,
			managerOptions.taxableMarkers,
			managerOptions.taxAdvantagedMarkers,
		), nil
	default:
		return nil, &UnknownReportKindError{Kind: kind}
	}
}

// *** PRIVATE ***

type managerOptions struct {
	taxRate              decimal.Decimal
	taxableMarkers       []string
	taxAdvantagedMarkers []string
}

func newManagerOptions() *managerOptions {
	return &managerOptions{
		taxRate:              DefaultTaxRate,
		taxableMarkers:       []string{"特定"},
		taxAdvantagedMarkers: []string{"NISA"},
	}
}

// acceptedRows returns the rows of the table whose width matches the header.
func acceptedRows(logger *slog.Logger, table *csvtable.Table) [][]string {
	rows := make([][]string, 0, len(table.Rows))
	for i, row := range table.Rows {
		if !table.AcceptsWidth(len(row)) {
			logger.Debug(
				"dropping row with unexpected width",
				"row", i+1,
				"width", len(row),
				"expected_width", table.ExpectedWidth,
			)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
