// Copyright 2026 Peter Edge
//
// All rights reserved.

package kabuctlrender

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrecord"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()
	for _, testCase := range []struct {
		input    string
		want     string
		negative bool
	}{
		{input: "0", want: "0"},
		{input: "999", want: "999"},
		{input: "1000", want: "1,000"},
		{input: "1234567", want: "1,234,567"},
		{input: "-2290", want: "-2,290", negative: true},
		{input: "-1234567.891", want: "-1,234,567.891", negative: true},
		{input: "13000.50", want: "13,000.50"},
		{input: "2,600.50", want: "2,600.50"},
		{input: "2400.00", want: "2,400.00"},
		{input: "007", want: "007"},
		{input: "0001234", want: "0,001,234"},
		{input: "1,000", want: "1,000"},
		{input: "-", want: "-"},
		{input: "abc", want: "abc"},
	} {
		got, negative := FormatNumber(testCase.input)
		require.Equal(t, testCase.want, got, testCase.input)
		require.Equal(t, testCase.negative, negative, testCase.input)
	}
}

func TestFormatNumberRoundTrip(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"0", "7", "-7", "1000", "-1000000", "123456789012", "0.005", "-98765.4321"} {
		formatted, _ := FormatNumber(input)
		original := decimal.RequireFromString(input)
		reparsed := decimal.RequireFromString(strings.ReplaceAll(formatted, ",", ""))
		require.True(t, original.Equal(reparsed), "%s formatted as %s", input, formatted)
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()
	require.Equal(t, "2024/01/15", FormatDate("2024-01-15"))
}

func TestHeader(t *testing.T) {
	t.Parallel()
	labels := NewLabelTable(map[string]string{"settlement_date": "入金日", "shares": "数量"})
	renderer := NewRenderer(discardLogger(), labels)
	header, err := renderer.Header([]string{"settlement_date", "shares"})
	require.NoError(t, err)
	require.Equal(t, []HeaderCell{{Name: "settlement_date", Label: "入金日"}, {Name: "shares", Label: "数量"}}, header)

	_, err = renderer.Header([]string{"settlement_date", "taxes"})
	missingLabelError := &MissingLabelError{}
	require.True(t, errors.As(err, &missingLabelError))
	require.Equal(t, "taxes", missingLabelError.Name)
}

func TestHeaderAllowMissingLabels(t *testing.T) {
	t.Parallel()
	buffer := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buffer, nil))
	renderer := NewRenderer(logger, NewLabelTable(nil), WithAllowMissingLabels(true))
	rendered, err := renderer.RenderHeader([]string{"taxes"})
	require.NoError(t, err)
	require.Equal(t, `<thead><tr><th class="taxes missing-label">taxes</th></tr></thead>`, rendered)
	require.Contains(t, buffer.String(), "missing display label")
}

func TestLabelTableIsCopied(t *testing.T) {
	t.Parallel()
	labels := map[string]string{"shares": "数量"}
	labelTable := NewLabelTable(labels)
	labels["shares"] = "changed"
	label, ok := labelTable.Label("shares")
	require.True(t, ok)
	require.Equal(t, "数量", label)
	require.Equal(t, 1, labelTable.Len())
}

func TestRenderRow(t *testing.T) {
	t.Parallel()
	renderer := NewRenderer(discardLogger(), NewLabelTable(nil))
	fields := []kabuctlrecord.Field{
		{Name: "trade_date", Kind: kabuctlrecord.KindDate, Value: ptr("2024-03-01")},
		{Name: "security_name", Kind: kabuctlrecord.KindText, Value: ptr("A&B <株>")},
		{Name: "realized_profit_and_loss", Kind: kabuctlrecord.KindNumber, Value: ptr("-2290")},
		{Name: "shares", Kind: kabuctlrecord.KindNumber},
	}
	require.Equal(
		t,
		`<tr class="grand-total">`+
			`<td class="trade_date">2024/03/01</td>`+
			`<td class="security_name">A&amp;B &lt;株&gt;</td>`+
			`<td class="realized_profit_and_loss realized_profit_and_loss-negative"><span class="negative">-2,290</span></td>`+
			`<td class="shares"></td>`+
			`</tr>`,
		renderer.RenderRow(fields, RowClassGrandTotal),
	)
}

func TestTableHTML(t *testing.T) {
	t.Parallel()
	renderer := NewRenderer(
		discardLogger(),
		NewLabelTable(map[string]string{"settlement_date": "入金日", "taxes": "税額"}),
	)
	header, err := renderer.Header([]string{"settlement_date", "taxes"})
	require.NoError(t, err)
	table := &Table{
		Kind:   "dividend",
		Header: header,
		Rows: []Row{
			renderer.Row(
				[]kabuctlrecord.Field{
					{Name: "settlement_date", Kind: kabuctlrecord.KindDate, Value: ptr("2024-02-10")},
					{Name: "taxes", Kind: kabuctlrecord.KindNumber, Value: ptr("200")},
				},
				"",
				"",
			),
			renderer.Row(
				[]kabuctlrecord.Field{
					{Name: "settlement_date", Kind: kabuctlrecord.KindDate},
					{Name: "taxes", Kind: kabuctlrecord.KindNumber, Value: ptr("1200")},
				},
				RowClassGroupTotal,
				"2024/02",
			),
		},
	}
	document, err := goquery.NewDocumentFromReader(strings.NewReader(table.HTML()))
	require.NoError(t, err)
	require.True(t, document.Find("table").HasClass("report-dividend"))
	require.Equal(t, []string{"入金日", "税額"}, document.Find("thead th").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	}))
	require.Equal(t, 2, document.Find("tbody tr").Length())
	total := document.Find("tbody tr.group-total")
	require.Equal(t, 1, total.Length())
	group, ok := total.Attr("data-group")
	require.True(t, ok)
	require.Equal(t, "2024/02", group)
	require.Equal(t, "1,200", total.Find("td.taxes").Text())

	require.Equal(t, []string{"入金日", "税額"}, table.Labels())
	require.Equal(t, [][]string{{"2024/02/10", "200"}, {"", "1,200"}}, table.TextRows())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(s string) *string {
	return &s
}
