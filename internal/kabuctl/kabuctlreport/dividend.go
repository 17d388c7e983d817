// Copyright 2026 Peter Edge
//
// All rights reserved.

package kabuctlreport

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrecord"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrender"
	"github.com/bufdev/kabuctl/internal/pkg/csvtable"
	"github.com/bufdev/kabuctl/internal/standard/xtime"
)

// dividendManager groups dividends by settlement month.
//
// Months render newest first, each followed by its total row.
type dividendManager struct {
	logger   *slog.Logger
	renderer *kabuctlrender.Renderer
	state    State
	groups   map[xtime.Month]*dividendGroup
}

type dividendGroup struct {
	dividends []*kabuctlrecord.Dividend
	totals    kabuctlrecord.DividendTotals
}

func newDividendManager(logger *slog.Logger, renderer *kabuctlrender.Renderer) *dividendManager {
	return &dividendManager{
		logger:   logger,
		renderer: renderer,
		state:    StateEmpty,
		groups:   make(map[xtime.Month]*dividendGroup),
	}
}

func (m *dividendManager) Kind() Kind {
	return KindDividend
}

func (m *dividendManager) State() State {
	return m.state
}

func (m *dividendManager) Ingest(table *csvtable.Table) {
	m.state = StateAccumulating
	for _, row := range acceptedRows(m.logger, table) {
		dividend := kabuctlrecord.NewDividend(m.logger, row)
		if dividend.SettlementDate == nil {
			m.logger.Debug("dropping dividend without settlement date", "row", row)
			continue
		}
		month := dividend.SettlementDate.YearMonth()
		group, ok := m.groups[month]
		if !ok {
			group = &dividendGroup{}
			m.groups[month] = group
		}
		group.dividends = append(group.dividends, dividend)
		group.totals.Add(dividend)
	}
}

func (m *dividendManager) Render() (*kabuctlrender.Table, error) {
	header, err := m.renderer.Header(kabuctlrecord.FieldNames(&kabuctlrecord.Dividend{}))
	if err != nil {
		return nil, err
	}
	months := slices.SortedFunc(maps.Keys(m.groups), func(a xtime.Month, b xtime.Month) int {
		return b.Compare(a)
	})
	var rows []kabuctlrender.Row
	for _, month := range months {
		group := m.groups[month]
		for _, dividend := range group.dividends {
			rows = append(rows, m.renderer.Row(dividend.Fields(), "", ""))
		}
		rows = append(
			rows,
			m.renderer.Row(
				kabuctlrecord.NewDividendTotal(group.totals).Fields(),
				kabuctlrender.RowClassGroupTotal,
				kabuctlrender.FormatDate(month.String()),
			),
		)
	}
	m.state = StateRendered
	return &kabuctlrender.Table{
		Kind:   string(KindDividend),
		Header: header,
		Rows:   rows,
	}, nil
}
