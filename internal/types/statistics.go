package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceStats are the scalar statistics derived from a return series.
type PerformanceStats struct {
	// Annualized geometric per-period return.
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	// Annualized sample standard deviation of returns.
	Volatility float64 `yaml:"volatility" json:"volatility"`
	// Mean return minus 2.33 volatilities.
	RiskAdjustedReturn float64 `yaml:"risk_adjusted_return" json:"risk_adjusted_return"`
	// Annualized root mean square of negative returns over all observations.
	DownsideDeviation float64 `yaml:"downside_deviation" json:"downside_deviation"`
	// Most negative peak to trough ratio of cumulative returns. Zero or negative.
	MaxDrawdown  float64 `yaml:"max_drawdown" json:"max_drawdown"`
	SharpeRatio  float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	SortinoRatio float64 `yaml:"sortino_ratio" json:"sortino_ratio"`
	Skewness     float64 `yaml:"skewness" json:"skewness"`
	Kurtosis     float64 `yaml:"kurtosis" json:"kurtosis"`
}

// StrategyInfo contains metadata about the strategy that generated stats.
type StrategyInfo struct {
	// Name is the human-readable name of the strategy
	Name string `yaml:"name" json:"name"`
	// Instruments traded by the strategy.
	Instruments []string `yaml:"instruments" json:"instruments"`
}

// BacktestStats summarizes one simulation run.
type BacktestStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// EngineVersion is the engine build that produced the run.
	EngineVersion string `yaml:"engine_version" json:"engine_version"`
	// Strategy contains metadata about the strategy that generated these stats.
	Strategy StrategyInfo `yaml:"strategy" json:"strategy"`
	// Status is the terminal state of the simulation loop.
	Status RunStatus `yaml:"status" json:"status"`
	// Bars is the number of snapshots recorded.
	Bars int `yaml:"bars" json:"bars"`
	// Transactions counts the bars on which an order was settled.
	Transactions int `yaml:"transactions" json:"transactions"`
	// Fills counts the per-instrument settlements written to the fills file.
	Fills int `yaml:"fills" json:"fills"`
	// ClosedPositions counts the fills that flattened a position.
	ClosedPositions int `yaml:"closed_positions" json:"closed_positions"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	FinalTotal     float64 `yaml:"final_total" json:"final_total"`
	TotalFees      float64 `yaml:"total_fees" json:"total_fees"`
	// PeriodsPerYear used to annualize the statistics.
	PeriodsPerYear float64          `yaml:"periods_per_year" json:"periods_per_year"`
	Performance    PerformanceStats `yaml:"performance" json:"performance"`
	// Benchmarks holds the same statistics computed for each benchmark close series.
	Benchmarks map[string]PerformanceStats `yaml:"benchmarks,omitempty" json:"benchmarks,omitempty"`
	// SnapshotsFilePath is the path to the snapshots parquet file.
	SnapshotsFilePath string `yaml:"snapshots_file_path" json:"snapshots_file_path"`
	// FillsFilePath is the path to the fills parquet file.
	FillsFilePath string `yaml:"fills_file_path" json:"fills_file_path"`
}

func WriteBacktestStats(path string, stats BacktestStats) error {
	// Marshal the struct to YAML
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	// Write the YAML data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}

// ReadBacktestStats reads backtest statistics from a YAML file.
func ReadBacktestStats(path string) (BacktestStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BacktestStats{}, fmt.Errorf("failed to read backtest stats file: %w", err)
	}

	var stats BacktestStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return BacktestStats{}, fmt.Errorf("failed to unmarshal backtest stats: %w", err)
	}

	return stats, nil
}
