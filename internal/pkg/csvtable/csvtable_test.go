// Copyright 2026 Peter Edge
//
// All rights reserved.

package csvtable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseWithHeader(t *testing.T) {
	t.Parallel()
	text := "入金日,銘柄,数量\n2024/01/15,\"トヨタ自動車, 普通株\",\"1,000\"\n合計,,\n2024/02/10,ソニー\n"
	table, err := Parse(text, true)
	require.NoError(t, err)
	require.Equal(t, []string{"入金日", "銘柄", "数量"}, table.Header)
	require.Equal(t, 3, table.ExpectedWidth)
	want := [][]string{
		{"2024/01/15", "トヨタ自動車, 普通株", "1,000"},
		{"合計", "", ""},
		{"2024/02/10", "ソニー"},
	}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", diff)
	}
	require.True(t, table.AcceptsWidth(3))
	require.False(t, table.AcceptsWidth(2))
}

func TestParseWithoutHeader(t *testing.T) {
	t.Parallel()
	table, err := Parse("a,b\nc\n", false)
	require.NoError(t, err)
	require.Nil(t, table.Header)
	require.Zero(t, table.ExpectedWidth)
	require.Len(t, table.Rows, 2)
	require.True(t, table.AcceptsWidth(1))
}

func TestParseTrimsFields(t *testing.T) {
	t.Parallel()
	table, err := Parse("a,b\n 1 ,　２　\n", true)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1", "２"}}, table.Rows)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()
	table, err := Parse("", true)
	require.NoError(t, err)
	require.Nil(t, table.Header)
	require.Empty(t, table.Rows)
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()
	_, err := Parse("a,b\n1,\"unterminated\n2,3\n", true)
	require.Error(t, err)
	var malformedInputError *MalformedInputError
	require.True(t, errors.As(err, &malformedInputError))
	require.Positive(t, malformedInputError.Line)

	_, err = Parse("a,b\n1,x\"y\"\n", true)
	require.True(t, errors.As(err, &malformedInputError))
}
