package cat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) Table {
	t.Helper()
	tbl, err := NewTable(
		Column{Name: "time", Aliases: []string{"t"}, Desc: "epoch millis"},
		Column{Name: "timestamp", Aliases: []string{"ts"}, Desc: "clock time"},
		Column{Name: "count", Aliases: []string{"dc"}, Desc: "documents"},
	)
	require.NoError(t, err)
	return tbl
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		wantErr bool
	}{
		{"distinct names", []Column{{Name: "a"}, {Name: "b"}}, false},
		{"no columns", nil, false},
		{"duplicate name", []Column{{Name: "a"}, {Name: "a"}}, true},
		{"empty name", []Column{{Name: ""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := NewTable(tt.columns...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, tbl.Columns(), len(tt.columns))
			assert.Empty(t, tbl.Rows())
		})
	}
}

func TestWithRowDoesNotMutate(t *testing.T) {
	header := testTable(t)

	one, err := header.WithRow(int64(1), "00:00:00", int64(5))
	require.NoError(t, err)
	two, err := one.WithRow(int64(2), "00:00:01", int64(6))
	require.NoError(t, err)

	assert.Empty(t, header.Rows())
	assert.Len(t, one.Rows(), 1)
	assert.Len(t, two.Rows(), 2)
	assert.Equal(t, int64(5), one.Rows()[0][2])
}

func TestWithRowLengthMismatch(t *testing.T) {
	_, err := testTable(t).WithRow(int64(1), "00:00:00")
	assert.Error(t, err)
}

func TestRowsReturnsCopy(t *testing.T) {
	tbl, err := testTable(t).WithRow(int64(1), "00:00:00", int64(5))
	require.NoError(t, err)

	rows := tbl.Rows()
	rows[0][2] = int64(99)

	assert.Equal(t, int64(5), tbl.Rows()[0][2])
}

func TestSelect(t *testing.T) {
	tbl, err := testTable(t).WithRow(int64(1), "00:00:00", int64(5))
	require.NoError(t, err)

	tests := []struct {
		name     string
		names    []string
		expected []string
		cells    []any
	}{
		{"empty keeps all", nil, []string{"time", "timestamp", "count"}, []any{int64(1), "00:00:00", int64(5)}},
		{"by name reordered", []string{"count", "time"}, []string{"count", "time"}, []any{int64(5), int64(1)}},
		{"by alias", []string{"dc", "ts"}, []string{"count", "timestamp"}, []any{int64(5), "00:00:00"}},
		{"unknown skipped", []string{"nope", "count"}, []string{"count"}, []any{int64(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := tbl.Select(tt.names)
			assert.Equal(t, tt.expected, sel.Names())
			assert.Equal(t, tt.cells, sel.Rows()[0])
		})
	}
}
