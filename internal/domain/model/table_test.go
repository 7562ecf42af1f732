package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
)

func TestNewTable(t *testing.T) {
	t.Run("rejects duplicate columns", func(t *testing.T) {
		_, err := model.NewTable([]string{"a", "b", "a"}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		_, err := model.NewTable([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
		assert.Error(t, err)
	})
}

func TestTable_ColumnOperations(t *testing.T) {
	tbl, err := model.NewTable([]string{"id", "v"}, [][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)

	t.Run("column index and missing column", func(t *testing.T) {
		idx, err := tbl.ColumnIndex("v")
		require.NoError(t, err)
		assert.Equal(t, 1, idx)

		_, err = tbl.ColumnIndex("w")
		var missing *model.MissingColumnError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "w", missing.Column)
	})

	t.Run("require columns reports the first missing", func(t *testing.T) {
		err := tbl.RequireColumns("id", "p", "q")
		var missing *model.MissingColumnError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "p", missing.Column)
	})

	t.Run("with column appends", func(t *testing.T) {
		out, err := tbl.WithColumn("z", []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "v", "z"}, out.Columns())
		assert.Equal(t, []string{"2", "y", "b"}, out.Row(1))
		assert.False(t, tbl.HasColumn("z"))
	})

	t.Run("with column overwrites", func(t *testing.T) {
		out, err := tbl.WithColumn("v", []string{"p", "q"})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "v"}, out.Columns())
		assert.Equal(t, []string{"1", "p"}, out.Row(0))
		assert.Equal(t, "x", tbl.Row(0)[1])
	})

	t.Run("with column length mismatch", func(t *testing.T) {
		_, err := tbl.WithColumn("z", []string{"a"})
		assert.Error(t, err)
	})

	t.Run("without columns and select rows", func(t *testing.T) {
		out := tbl.WithoutColumns("id", "absent").SelectRows([]int{1, 0})
		assert.Equal(t, []string{"v"}, out.Columns())
		assert.Equal(t, []string{"y"}, out.Row(0))
		assert.Equal(t, []string{"x"}, out.Row(1))
	})
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "2018-11-15T02:18:49Z", want: "2018-11-15T02:18:49Z"},
		{input: "2018-11-15T04:18:49+02:00", want: "2018-11-15T02:18:49Z"},
		{input: "2018-11-15T02:18:49", want: "2018-11-15T02:18:49Z"},
		{input: "2018-11-15 02:18:49", want: "2018-11-15T02:18:49Z"},
		{input: "2018-11-15", want: "2018-11-15T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := model.ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ts.Format("2006-01-02T15:04:05Z07:00"))
		})
	}

	_, err := model.ParseTimestamp("15/11/2018")
	assert.Error(t, err)
}
