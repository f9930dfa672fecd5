package engine

import (
	"context"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnRunStartCallback is called once the market data is loaded and before the first bar.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, strategyName string, totalDataPoints int) error

// OnRunEndCallback is called after the results of a run have been written.
type OnRunEndCallback func(runID string, status types.RunStatus, resultFolderPath string)

// OnBacktestEndCallback is called when the backtest completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnProcessDataCallback is called for each data point processed.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnRunEnd      *OnRunEndCallback
	OnBacktestEnd *OnBacktestEndCallback
	OnProcessData *OnProcessDataCallback
}

type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetResultsFolder overrides the output directory from the configuration.
	// The results are written to <folder>/<strategy_name>/<start>_<end>.
	SetResultsFolder(folder string) error
	// LoadStrategy sets the strategy to simulate. When no strategy is loaded the one named in the
	// configuration is used.
	LoadStrategy(strategy strategy.Strategy) error
	// SetDataSource sets the data source for the engine, bypassing the configured data files.
	SetDataSource(dataSource datasource.DataSource) error
	// Run runs the engine and executes the trading strategy.
	// The context can be used to cancel the backtest between bars.
	// Use LifecycleCallbacks to receive notifications at different phases of the backtest.
	Run(ctx context.Context, callbacks LifecycleCallbacks) (types.BacktestStats, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
	// Close releases the resources opened by Initialize.
	Close() error
}
