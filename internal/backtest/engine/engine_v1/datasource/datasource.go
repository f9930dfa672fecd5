package datasource

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// DataSource is a cursor over aligned market data for a fixed set of instruments.
//
// Every instrument shares one time index, so CurrentTime is the same for all of them. Value reads
// a named field of the row under the cursor. Once the cursor passes the last row Done reports
// true and Value returns an error.
type DataSource interface {
	// CurrentTime returns the timestamp of the row under the cursor.
	CurrentTime() time.Time
	// Value returns the named field for instrument at the cursor.
	Value(instrument string, field string) (float64, error)
	// Advance moves the cursor one row forward.
	Advance()
	// Cursor returns the zero based index of the current row.
	Cursor() int
	// Len returns the number of rows in the shared index.
	Len() int
	// Done reports whether the cursor has passed the last row.
	Done() bool
	// Instruments returns the instruments in configuration order.
	Instruments() []string
	// Index returns the shared time index.
	Index() []time.Time
	// Benchmarks returns the benchmark close series reindexed onto the shared index.
	Benchmarks() []types.PriceSeries
	// Reset moves the cursor back to the first row.
	Reset()
}
