package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Indicator precomputes one or more derived columns over a full price series.
//
// Apply writes its columns into every row. Rows inside the warm-up window get NaN and are
// dropped by the Pipeline afterwards.
type Indicator interface {
	// Name returns the name of the indicator
	Name() string
	// Columns returns the names of the fields the indicator writes.
	Columns() []string
	// Warmup returns how many leading rows lack a valid value.
	Warmup() int
	// Apply computes the indicator columns for rows in place.
	Apply(rows []types.MarketData) error
}
