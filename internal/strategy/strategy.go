package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Strategy turns the data under the cursor into trading signals.
//
// GenerateSignal is called exactly once per bar. The state argument is a read-only copy; a
// strategy never mutates the portfolio, only its own status.
type Strategy interface {
	// Name returns the unique name of the strategy
	Name() string
	// Initialize is called once before the first bar with the instruments being simulated.
	Initialize(instruments []string) error
	// GenerateSignal returns the signal for the current bar, or None to do nothing.
	GenerateSignal(ds datasource.DataSource, state types.PortfolioState) (optional.Option[types.Signal], error)
}

// IndicatorProvider is implemented by strategies that read precomputed indicator columns.
type IndicatorProvider interface {
	Indicators() ([]indicator.Indicator, error)
}

// Status is the position a strategy believes it holds.
type Status string

const (
	StatusEmpty Status = "EMPTY"
	StatusLong  Status = "LONG"
)

// StrategyType names a built-in strategy.
type StrategyType string

const (
	StrategyTypeBuyHold            StrategyType = "buy_hold"
	StrategyTypeMovingAverageCross StrategyType = "moving_average_cross"
)

// AllStrategyTypes lists the built-in strategies.
var AllStrategyTypes = []any{
	StrategyTypeBuyHold,
	StrategyTypeMovingAverageCross,
}

// Config selects a built-in strategy and its parameters.
type Config struct {
	Type StrategyType `yaml:"type" json:"type" jsonschema:"title=Strategy,description=Built-in strategy to run" validate:"required,oneof=buy_hold moving_average_cross"`
	// ShortWindow is the short moving average window for moving_average_cross.
	ShortWindow int `yaml:"short_window" json:"short_window" jsonschema:"title=Short Window,default=10" validate:"gte=0"`
	// LongWindow is the long moving average window for moving_average_cross.
	LongWindow int `yaml:"long_window" json:"long_window" jsonschema:"title=Long Window,default=30" validate:"gte=0"`
	// MAType is sma or ema.
	MAType indicator.MAType `yaml:"ma_type" json:"ma_type" jsonschema:"title=Moving Average Type,default=sma"`
}

// New builds the strategy described by config.
func New(config Config) (Strategy, error) {
	switch config.Type {
	case StrategyTypeBuyHold:
		return NewBuyHold(), nil
	case StrategyTypeMovingAverageCross:
		return NewMovingAverageCross(config.ShortWindow, config.LongWindow, config.MAType), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy type %q", config.Type)
	}
}
