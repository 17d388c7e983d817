// Copyright 2026 Peter Edge
//
// All rights reserved.

package kabuctlreport

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrecord"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrender"
	"github.com/bufdev/kabuctl/internal/pkg/csvtable"
	"github.com/bufdev/kabuctl/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

// profitLossManager groups realized profit and loss rows by trade date.
//
// Dates render oldest first, followed by a single total row over all dates.
// Unlike dividends there is no per-group total.
type profitLossManager struct {
	logger               *slog.Logger
	renderer             *kabuctlrender.Renderer
	taxRate              decimal.Decimal
	taxableMarkers       []string
	taxAdvantagedMarkers []string
	state                State
	groups               map[xtime.Date][]*kabuctlrecord.ProfitLoss
	taxableTotal         int64
	taxAdvantagedTotal   int64
}

func newProfitLossManager(
	logger *slog.Logger,
	renderer *kabuctlrender.Renderer,
	taxRate decimal.Decimal,
	taxableMarkers []string,
	taxAdvantagedMarkers []string,
) *profitLossManager {
	return &profitLossManager{
		logger:               logger,
		renderer:             renderer,
		taxRate:              taxRate,
		taxableMarkers:       taxableMarkers,
		taxAdvantagedMarkers: taxAdvantagedMarkers,
		state:                StateEmpty,
		groups:               make(map[xtime.Date][]*kabuctlrecord.ProfitLoss),
	}
}

func (m *profitLossManager) Kind() Kind {
	return KindProfitLoss
}

func (m *profitLossManager) State() State {
	return m.state
}

func (m *profitLossManager) Ingest(table *csvtable.Table) {
	m.state = StateAccumulating
	for _, row := range acceptedRows(m.logger, table) {
		profitLoss := kabuctlrecord.NewProfitLoss(m.logger, row)
		if profitLoss.TradeDate == nil {
			m.logger.Debug("dropping profit and loss without trade date", "row", row)
			continue
		}
		m.groups[*profitLoss.TradeDate] = append(m.groups[*profitLoss.TradeDate], profitLoss)
		m.addToTotals(profitLoss)
	}
}

func (m *profitLossManager) Render() (*kabuctlrender.Table, error) {
	header, err := m.renderer.Header(kabuctlrecord.FieldNames(&kabuctlrecord.ProfitLoss{}))
	if err != nil {
		return nil, err
	}
	dates := slices.SortedFunc(maps.Keys(m.groups), func(a xtime.Date, b xtime.Date) int {
		return a.Compare(b)
	})
	var rows []kabuctlrender.Row
	for _, date := range dates {
		for _, profitLoss := range m.groups[date] {
			rows = append(rows, m.renderer.Row(profitLoss.Fields(), "", ""))
		}
	}
	rows = append(
		rows,
		m.renderer.Row(
			kabuctlrecord.NewProfitLossTotal(m.taxableTotal, m.taxAdvantagedTotal, m.taxRate).Fields(),
			kabuctlrender.RowClassGrandTotal,
			"",
		),
	)
	m.state = StateRendered
	return &kabuctlrender.Table{
		Kind:   string(KindProfitLoss),
		Header: header,
		Rows:   rows,
	}, nil
}

// addToTotals adds the realized amount to the tax-advantaged total when the
// account matches only a tax-advantaged marker, and to the taxable total otherwise.
func (m *profitLossManager) addToTotals(profitLoss *kabuctlrecord.ProfitLoss) {
	if profitLoss.RealizedProfitAndLoss == nil {
		return
	}
	account := ""
	if profitLoss.Account != nil {
		account = *profitLoss.Account
	}
	switch {
	case containsAny(account, m.taxableMarkers):
		m.taxableTotal += *profitLoss.RealizedProfitAndLoss
	case containsAny(account, m.taxAdvantagedMarkers):
		m.taxAdvantagedTotal += *profitLoss.RealizedProfitAndLoss
	default:
		m.logger.Debug(
			"account matches no marker, counting as taxable",
			"account", account,
			"realized_profit_and_loss", *profitLoss.RealizedProfitAndLoss,
		)
		m.taxableTotal += *profitLoss.RealizedProfitAndLoss
	}
}

func containsAny(s string, substrings []string) bool {
	for _, substring := range substrings {
		if strings.Contains(s, substring) {
			return true
		}
	}
	return false
}
