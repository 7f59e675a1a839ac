package count

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 13, 45, 30, 123_000_000, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestHeaderSchema(t *testing.T) {
	header := NewTableBuilder(time.UTC, nil).Header()

	assert.Equal(t, []string{"time", "timestamp", "count"}, header.Names())
	assert.Empty(t, header.Rows())
	for _, c := range header.Columns() {
		assert.NotEmpty(t, c.Desc, "column %s has no description", c.Name)
	}
}

func TestRow(t *testing.T) {
	tbl, err := NewTableBuilder(time.UTC, fixedClock).Row(CountResult{Count: 42})
	require.NoError(t, err)

	assert.Equal(t, []string{"time", "timestamp", "count"}, tbl.Names())
	rows := tbl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, []any{fixedNow.UnixMilli(), "13:45:30", int64(42)}, rows[0])
}

func TestRowZeroCount(t *testing.T) {
	tbl, err := NewTableBuilder(time.UTC, fixedClock).Row(CountResult{Count: 0})
	require.NoError(t, err)

	cell := tbl.Rows()[0][2]
	require.NotNil(t, cell)
	assert.Equal(t, int64(0), cell)
}

func TestRowTimeColumnsAgree(t *testing.T) {
	loc := time.FixedZone("UTC+5:30", 5*3600+1800)
	b := NewTableBuilder(loc, nil)

	// instants straddling second boundaries
	for _, ms := range []int64{0, 999, 1000, 1_709_300_730_999, 1_709_300_731_000} {
		t.Run(strconv.FormatInt(ms, 10), func(t *testing.T) {
			tbl, err := b.RowAt(CountResult{Count: 1}, time.UnixMilli(ms))
			require.NoError(t, err)

			row := tbl.Rows()[0]
			millis := row[0].(int64)
			assert.Equal(t, ms, millis)
			assert.Equal(t, time.UnixMilli(millis).In(loc).Format("15:04:05"), row[1])
		})
	}
}

func TestRowLocalByDefault(t *testing.T) {
	tbl, err := NewTableBuilder(nil, fixedClock).Row(CountResult{Count: 3})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.In(time.Local).Format(TimestampLayout), tbl.Rows()[0][1])
}

func TestRowReadsClockOnce(t *testing.T) {
	var reads int
	clock := func() time.Time {
		reads++
		// a second read would land in the next second
		return fixedNow.Add(time.Duration(reads-1) * 900 * time.Millisecond)
	}

	tbl, err := NewTableBuilder(time.UTC, clock).Row(CountResult{Count: 5})
	require.NoError(t, err)

	assert.Equal(t, 1, reads)
	row := tbl.Rows()[0]
	assert.Equal(t, fixedNow.UnixMilli(), row[0])
	assert.Equal(t, "13:45:30", row[1])
}

func TestRowStampedAtBuildTime(t *testing.T) {
	var at time.Time
	b := NewTableBuilder(time.UTC, func() time.Time { return at })

	at = fixedNow
	first, err := b.Row(CountResult{Count: 1})
	require.NoError(t, err)

	at = fixedNow.Add(time.Hour)
	second, err := b.Row(CountResult{Count: 1})
	require.NoError(t, err)

	assert.Equal(t, "13:45:30", first.Rows()[0][1])
	assert.Equal(t, "14:45:30", second.Rows()[0][1])
}
