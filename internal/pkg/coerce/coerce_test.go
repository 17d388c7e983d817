// Copyright 2026 Peter Edge
//
// All rights reserved.

package coerce

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/bufdev/kabuctl/internal/standard/xtime"
	"github.com/stretchr/testify/require"
)

func TestColumn(t *testing.T) {
	t.Parallel()
	row := []string{"a", "b"}
	require.Equal(t, "b", *Column(row, 1))
	require.Nil(t, Column(row, 2))
	require.Nil(t, Column(row, -1))
}

func TestDate(t *testing.T) {
	t.Parallel()
	logger, buffer := newTestLogger()
	require.Nil(t, Date(logger, nil))
	require.Equal(t, &xtime.Date{Year: 2024, Month: 1, Day: 15}, Date(logger, ptr("2024/01/15")))
	require.Equal(t, &xtime.Date{Year: 2024, Month: 2, Day: 10}, Date(logger, ptr("2024-02-10")))
	require.Empty(t, buffer.String())
	require.Nil(t, Date(logger, ptr("2024/13/01")))
	require.Contains(t, buffer.String(), "field coercion failed")
}

func TestInt(t *testing.T) {
	t.Parallel()
	logger, buffer := newTestLogger()
	for input, want := range map[string]int64{
		"1000":        1000,
		"1,000":       1000,
		"-2,290":      -2290,
		" 12,345,678": 12345678,
	} {
		got := Int(logger, ptr(input))
		require.NotNil(t, got, input)
		require.Equal(t, want, *got, input)
	}
	require.Nil(t, Int(logger, nil))
	require.Empty(t, buffer.String())

	require.Nil(t, Int(logger, ptr("-")))
	require.Contains(t, buffer.String(), "field not applicable")
	require.NotContains(t, buffer.String(), "field coercion failed")

	require.Nil(t, Int(logger, ptr("12.5")))
	require.Contains(t, buffer.String(), "field coercion failed")
}

func TestDecimal(t *testing.T) {
	t.Parallel()
	logger, _ := newTestLogger()
	got := Decimal(logger, ptr("1,234.50"))
	require.NotNil(t, got)
	require.Equal(t, "1234.5", got.String())
	require.Nil(t, Decimal(logger, ptr("abc")))
	require.Nil(t, Decimal(logger, nil))
}

func TestString(t *testing.T) {
	t.Parallel()
	raw := "特定"
	got := String(&raw)
	require.Equal(t, "特定", *got)
	raw = "NISA"
	require.Equal(t, "特定", *got)
	require.Nil(t, String(nil))
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buffer, &slog.HandlerOptions{Level: slog.LevelDebug})), buffer
}

func ptr(s string) *string {
	return &s
}
