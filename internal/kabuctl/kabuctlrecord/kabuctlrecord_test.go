// Copyright 2026 Peter Edge
//
// All rights reserved.

package kabuctlrecord

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/bufdev/kabuctl/internal/standard/xtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testTaxRate = decimal.RequireFromString("0.20315")

func TestNewDividend(t *testing.T) {
	t.Parallel()
	row := []string{"2024/01/15", "国内株式", "特定", "7203", "トヨタ自動車", "円", "-", "100", "1,000", "100", "900"}
	dividend := NewDividend(discardLogger(), row)
	require.Equal(t, &xtime.Date{Year: 2024, Month: 1, Day: 15}, dividend.SettlementDate)
	require.Equal(t, "トヨタ自動車", *dividend.SecurityName)
	require.Equal(t, "-", *dividend.UnitPrice)
	require.Equal(t, int64(100), *dividend.Shares)
	require.Equal(t, int64(1000), *dividend.DividendsBeforeTax)
	require.Equal(t, int64(900), *dividend.NetAmountReceived)
	require.Nil(t, dividend.TotalDividendsBeforeTax)
	require.Nil(t, dividend.TotalTaxes)
	require.Nil(t, dividend.TotalNetAmountReceived)
}

func TestNewDividendToleratesBadFields(t *testing.T) {
	t.Parallel()
	row := []string{"not a date", "国内株式", "特定", "7203", "トヨタ自動車", "円", "-", "x", "1,000"}
	dividend := NewDividend(discardLogger(), row)
	require.Nil(t, dividend.SettlementDate)
	require.Nil(t, dividend.Shares)
	require.Equal(t, int64(1000), *dividend.DividendsBeforeTax)
	// Columns past the end of the row are absent.
	require.Nil(t, dividend.Taxes)
	require.Nil(t, dividend.NetAmountReceived)
}

func TestDividendFields(t *testing.T) {
	t.Parallel()
	total := NewDividendTotal(DividendTotals{DividendsBeforeTax: 3000, Taxes: 300, NetAmountReceived: 2700})
	values := fieldValues(total)
	require.Len(t, values, 14)
	for name, value := range values {
		switch name {
		case "total_dividends_before_tax":
			require.Equal(t, "3000", *value)
		case "total_taxes":
			require.Equal(t, "300", *value)
		case "total_net_amount_received":
			require.Equal(t, "2700", *value)
		default:
			require.Nil(t, value, name)
		}
	}
	require.Equal(t, FieldNames(&Dividend{}), FieldNames(total))
	require.Equal(t, "settlement_date", FieldNames(total)[0])
}

func TestDividendTotalsAdd(t *testing.T) {
	t.Parallel()
	var totals DividendTotals
	totals.Add(NewDividend(discardLogger(), []string{"2024/01/15", "", "", "", "", "", "", "", "1000", "100", "900"}))
	totals.Add(NewDividend(discardLogger(), []string{"2024/01/20", "", "", "", "", "", "", "", "2000", "-", "1800"}))
	require.Equal(t, DividendTotals{DividendsBeforeTax: 3000, Taxes: 100, NetAmountReceived: 2700}, totals)
}

func TestNewProfitLoss(t *testing.T) {
	t.Parallel()
	row := []string{"2024/03/01", "2024/03/05", "6758", "ソニーグループ", "特定", "", "", "100", "13,000.5", "1,300,050", "12,000", "100,050"}
	profitLoss := NewProfitLoss(discardLogger(), row)
	require.Equal(t, &xtime.Date{Year: 2024, Month: 3, Day: 1}, profitLoss.TradeDate)
	require.Equal(t, &xtime.Date{Year: 2024, Month: 3, Day: 5}, profitLoss.SettlementDate)
	require.Equal(t, "特定", *profitLoss.Account)
	require.Equal(t, "13000.5", profitLoss.AskedPrice.String())
	require.Equal(t, int64(1300050), *profitLoss.Proceeds)
	require.Equal(t, int64(100050), *profitLoss.RealizedProfitAndLoss)
	values := fieldValues(profitLoss)
	require.Equal(t, "2024-03-01", *values["trade_date"])
	require.Equal(t, "12000", *values["purchase_price"])
	require.Nil(t, values["withholding_tax"])

	row[8], row[10] = "2,600.50", "2,400.00"
	values = fieldValues(NewProfitLoss(discardLogger(), row))
	require.Equal(t, "2600.50", *values["asked_price"])
	require.Equal(t, "2400.00", *values["purchase_price"])
}

func TestWithholdingTax(t *testing.T) {
	t.Parallel()
	for _, taxable := range []int64{0, 1, 100, 100050, 123456789} {
		want := int64(math.Round(float64(taxable) * 0.20315))
		require.Equal(t, want, WithholdingTax(taxable, testTaxRate), "taxable %d", taxable)
	}
	for _, taxable := range []int64{-1, -100050} {
		require.Zero(t, WithholdingTax(taxable, testTaxRate))
	}
	// 2 * 0.25 = 0.5 rounds away from zero.
	require.Equal(t, int64(1), WithholdingTax(2, decimal.RequireFromString("0.25")))
}

func TestNewProfitLossTotal(t *testing.T) {
	t.Parallel()
	total := NewProfitLossTotal(100000, 50000, testTaxRate)
	require.Equal(t, int64(150000), *total.TotalRealizedProfitAndLoss)
	require.Equal(t, int64(20315), *total.WithholdingTax)
	require.Equal(t, int64(150000-20315), *total.ProfitAndLoss)
	require.Nil(t, total.TradeDate)
	require.Nil(t, total.RealizedProfitAndLoss)

	total = NewProfitLossTotal(-30000, 50000, testTaxRate)
	require.Equal(t, int64(20000), *total.TotalRealizedProfitAndLoss)
	require.Zero(t, *total.WithholdingTax)
	require.Equal(t, int64(20000), *total.ProfitAndLoss)
}

func fieldValues(record Record) map[string]*string {
	values := make(map[string]*string)
	for _, field := range record.Fields() {
		values[field.Name] = field.Value
	}
	return values
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
