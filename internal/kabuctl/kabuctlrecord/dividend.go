// Copyright 2026 Peter Edge
//
// All rights reserved.

package kabuctlrecord

import (
	"log/slog"

	"github.com/bufdev/kabuctl/internal/pkg/coerce"
	"github.com/bufdev/kabuctl/internal/standard/xtime"
)

// Dividend is a row of a dividend statement (配当金・分配金一覧).
//
// Columns: 入金日(受渡日),商品,口座,銘柄コード,銘柄,受取通貨,単価,数量,
// 配当・分配金(税引前),税額,受取金額. UnitPrice is kept as text since foreign
// listings report it as "-".
type Dividend struct {
	SettlementDate     *xtime.Date
	Product            *string
	Account            *string
	SecurityCode       *string
	SecurityName       *string
	Currency           *string
	UnitPrice          *string
	Shares             *int64
	DividendsBeforeTax *int64
	Taxes              *int64
	NetAmountReceived  *int64

	TotalDividendsBeforeTax *int64
	TotalTaxes              *int64
	TotalNetAmountReceived  *int64
}

// DividendTotals are the summed amounts of a group of dividend rows.
type DividendTotals struct {
	DividendsBeforeTax int64
	Taxes              int64
	NetAmountReceived  int64
}

// Add adds the amounts of a data row. Absent amounts count as zero.
func (t *DividendTotals) Add(dividend *Dividend) {
	t.DividendsBeforeTax += valueOrZero(dividend.DividendsBeforeTax)
	t.Taxes += valueOrZero(dividend.Taxes)
	t.NetAmountReceived += valueOrZero(dividend.NetAmountReceived)
}

// NewDividend coerces a CSV row into a Dividend data row.
func NewDividend(logger *slog.Logger, row []string) *Dividend {
	return &Dividend{
		SettlementDate:     coerce.Date(logger, coerce.Column(row, 0)),
		Product:            coerce.String(coerce.Column(row, 1)),
		Account:            coerce.String(coerce.Column(row, 2)),
		SecurityCode:       coerce.String(coerce.Column(row, 3)),
		SecurityName:       coerce.String(coerce.Column(row, 4)),
		Currency:           coerce.String(coerce.Column(row, 5)),
		UnitPrice:          coerce.String(coerce.Column(row, 6)),
		Shares:             coerce.Int(logger, coerce.Column(row, 7)),
		DividendsBeforeTax: coerce.Int(logger, coerce.Column(row, 8)),
		Taxes:              coerce.Int(logger, coerce.Column(row, 9)),
		NetAmountReceived:  coerce.Int(logger, coerce.Column(row, 10)),
	}
}

// NewDividendTotal returns a synthetic total row for the given totals.
func NewDividendTotal(totals DividendTotals) *Dividend {
	return &Dividend{
		TotalDividendsBeforeTax: int64Ptr(totals.DividendsBeforeTax),
		TotalTaxes:              int64Ptr(totals.Taxes),
		TotalNetAmountReceived:  int64Ptr(totals.NetAmountReceived),
	}
}

// Fields implements Record.
func (d *Dividend) Fields() []Field {
	return []Field{
		dateField("settlement_date", d.SettlementDate),
		textField("product", d.Product),
		textField("account", d.Account),
		textField("security_code", d.SecurityCode),
		textField("security_name", d.SecurityName),
		textField("currency", d.Currency),
		numberTextField("unit_price", d.UnitPrice),
		intField("shares", d.Shares),
		intField("dividends_before_tax", d.DividendsBeforeTax),
		intField("taxes", d.Taxes),
		intField("net_amount_received", d.NetAmountReceived),
		intField("total_dividends_before_tax", d.TotalDividendsBeforeTax),
		intField("total_taxes", d.TotalTaxes),
		intField("total_net_amount_received", d.TotalNetAmountReceived),
	}
}

func valueOrZero(value *int64) int64 {
	if value == nil {
		return 0
	}
	return *value
}
