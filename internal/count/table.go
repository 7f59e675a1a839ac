package count

import (
	"time"

	"github.com/dsjohal14/catcount/internal/cat"
)

// TimestampLayout renders the timestamp column as HH:mm:ss
const TimestampLayout = "15:04:05"

var columns = []cat.Column{
	{Name: "time", Aliases: []string{"t"}, Desc: "time, in milliseconds since epoch UTC, that the count was executed"},
	{Name: "timestamp", Aliases: []string{"ts", "hms"}, Desc: "time that the count was executed"},
	{Name: "count", Aliases: []string{"dc", "docs.count", "docsCount"}, Desc: "the document count"},
}

// TableBuilder produces the count table
type TableBuilder struct {
	loc *time.Location
	now func() time.Time
}

// NewTableBuilder renders timestamps in loc and reads the clock from now.
// nil means time.Local and time.Now.
func NewTableBuilder(loc *time.Location, now func() time.Time) *TableBuilder {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &TableBuilder{loc: loc, now: now}
}

// Header returns the table with columns and no rows
func (b *TableBuilder) Header() cat.Table {
	t, err := cat.NewTable(columns...)
	if err != nil {
		// column names are constants
		panic(err)
	}
	return t
}

// Row reads the clock once and builds the table for result at that instant
func (b *TableBuilder) Row(result CountResult) (cat.Table, error) {
	return b.RowAt(result, b.now())
}

// RowAt returns the header plus one row for result. Both time columns come
// from at so they always describe the same instant.
func (b *TableBuilder) RowAt(result CountResult, at time.Time) (cat.Table, error) {
	return b.Header().WithRow(
		at.UnixMilli(),
		at.In(b.loc).Format(TimestampLayout),
		result.Count,
	)
}
