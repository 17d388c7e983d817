// Copyright 2026 Peter Edge
//
// All rights reserved.

package kabuctlrecord

import (
	"log/slog"

	"github.com/bufdev/kabuctl/internal/pkg/coerce"
	"github.com/bufdev/kabuctl/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

// ProfitLoss is a row of a realized profit and loss statement (実現損益).
//
// Columns: 約定日,受渡日,銘柄コード,銘柄名,口座,(5 and 6 unused),数量,
// 売却/決済単価,売却/決済額,平均取得価額,実現損益.
type ProfitLoss struct {
	TradeDate             *xtime.Date
	SettlementDate        *xtime.Date
	SecurityCode          *string
	SecurityName          *string
	Account               *string
	Shares                *int64
	AskedPrice            *decimal.Decimal
	Proceeds              *int64
	PurchasePrice         *decimal.Decimal
	RealizedProfitAndLoss *int64

	TotalRealizedProfitAndLoss *int64
	WithholdingTax             *int64
	ProfitAndLoss              *int64
}

// NewProfitLoss coerces a CSV row into a ProfitLoss data row.
func NewProfitLoss(logger *slog.Logger, row []string) *ProfitLoss {
	return &ProfitLoss{
		TradeDate:             coerce.Date(logger, coerce.Column(row, 0)),
		SettlementDate:        coerce.Date(logger, coerce.Column(row, 1)),
		SecurityCode:          coerce.String(coerce.Column(row, 2)),
		SecurityName:          coerce.String(coerce.Column(row, 3)),
		Account:               coerce.String(coerce.Column(row, 4)),
		Shares:                coerce.Int(logger, coerce.Column(row, 7)),
		AskedPrice:            coerce.Decimal(logger, coerce.Column(row, 8)),
		Proceeds:              coerce.Int(logger, coerce.Column(row, 9)),
		PurchasePrice:         coerce.Decimal(logger, coerce.Column(row, 10)),
		RealizedProfitAndLoss: coerce.Int(logger, coerce.Column(row, 11)),
	}
}

// NewProfitLossTotal returns a synthetic total row.
//
// taxableTotal is the realized profit and loss summed over taxable accounts,
// and taxAdvantagedTotal the same over tax-advantaged accounts. Tax is withheld
// only on a positive taxable total and never on tax-advantaged accounts.
func NewProfitLossTotal(taxableTotal int64, taxAdvantagedTotal int64, taxRate decimal.Decimal) *ProfitLoss {
	withholdingTax := WithholdingTax(taxableTotal, taxRate)
	return &ProfitLoss{
		TotalRealizedProfitAndLoss: int64Ptr(taxableTotal + taxAdvantagedTotal),
		WithholdingTax:             int64Ptr(withholdingTax),
		ProfitAndLoss:              int64Ptr(taxableTotal + taxAdvantagedTotal - withholdingTax),
	}
}

// WithholdingTax returns the tax withheld on a taxable total.
//
// The result is 0 for a negative total and round(total * taxRate) otherwise,
// rounding half away from zero.
func WithholdingTax(taxableTotal int64, taxRate decimal.Decimal) int64 {
	if taxableTotal < 0 {
		return 0
	}
	return decimal.NewFromInt(taxableTotal).Mul(taxRate).Round(0).IntPart()
}

// Fields implements Record.
func (p *ProfitLoss) Fields() []Field {
	return []Field{
		dateField("trade_date", p.TradeDate),
		dateField("settlement_date", p.SettlementDate),
		textField("security_code", p.SecurityCode),
		textField("security_name", p.SecurityName),
		textField("account", p.Account),
		intField("shares", p.Shares),
		decimalField("asked_price", p.AskedPrice),
		intField("proceeds", p.Proceeds),
		decimalField("purchase_price", p.PurchasePrice),
		intField("realized_profit_and_loss", p.RealizedProfitAndLoss),
		intField("total_realized_profit_and_loss", p.TotalRealizedProfitAndLoss),
		intField("withholding_tax", p.WithholdingTax),
		intField("profit_and_loss", p.ProfitAndLoss),
	}
}
