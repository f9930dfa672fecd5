package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/performance"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// statistics are rounded to this many decimals in stats.yaml
const statsPrecision = 6

type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	strategy      strategy.Strategy
	resultsFolder string
	log           *logger.Logger
	state         *BacktestState
	datasource    datasource.DataSource
	commissionFee commission_fee.CommissionFee
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:        EmptyConfig(),
		strategy:      nil,
		resultsFolder: "",
		log:           nil,
		state:         nil,
		datasource:    nil,
		commissionFee: nil,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	// parse the config on top of the defaults
	b.config = EmptyConfig()

	err := yaml.Unmarshal([]byte(config), &b.config)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	// initialize the logger
	var loggerError error

	b.log, loggerError = logger.NewLoggerWithLevel(b.config.LogLevel)
	if loggerError != nil {
		return loggerError
	}

	b.log.Debug("Backtest engine initialized",
		zap.Strings("tickers", b.config.Tickers),
		zap.Float64("initial_capital", b.config.InitialCapital),
	)

	// initialize the state, releasing the one of a previous Initialize
	if err := b.Close(); err != nil {
		return err
	}

	b.state, err = NewBacktestState(b.log)
	if err != nil {
		return fmt.Errorf("failed to create backtest state: %w", err)
	}

	if err := b.state.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize state: %w", err)
	}

	b.commissionFee = commission_fee.GetCommissionFeeHandler(b.config.Broker, b.config.TransactionRate)

	if b.resultsFolder == "" {
		b.resultsFolder = b.config.ResultsFolder
	}

	return nil
}

// LoadStrategy implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategy(strategy strategy.Strategy) error {
	if strategy == nil {
		return errors.New(errors.ErrCodeStrategyNotLoaded, "strategy is nil")
	}

	b.strategy = strategy

	if b.log != nil {
		b.log.Debug("Strategy loaded", zap.String("strategy", strategy.Name()))
	}

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	if b.log != nil {
		b.log.Debug("Results folder set", zap.String("folder", folder))
	}

	return nil
}

func (b *BacktestEngineV1) SetDataSource(datasource datasource.DataSource) error {
	b.datasource = datasource

	return nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (stats types.BacktestStats, err error) {
	if callbacks.OnBacktestEnd != nil {
		defer func() {
			(*callbacks.OnBacktestEnd)(err)
		}()
	}

	if err := b.preRunCheck(); err != nil {
		return types.BacktestStats{}, err
	}

	if b.strategy == nil {
		b.strategy, err = strategy.New(b.config.Strategy)
		if err != nil {
			return types.BacktestStats{}, err
		}
	}

	ds, err := b.loadDataSource()
	if err != nil {
		return types.BacktestStats{}, err
	}

	instruments := ds.Instruments()

	if err := b.strategy.Initialize(instruments); err != nil {
		return types.BacktestStats{}, fmt.Errorf("failed to initialize strategy: %w", err)
	}

	runID := uuid.New().String()

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, b.strategy.Name(), ds.Len()); err != nil {
			return types.BacktestStats{}, err
		}
	}

	b.log.Info("Running strategy",
		zap.String("run_id", runID),
		zap.String("strategy", b.strategy.Name()),
		zap.Strings("instruments", instruments),
		zap.Int("bars", ds.Len()),
	)

	ledger := NewLedger(ds, b.config.InitialCapital, b.log)
	resolver := NewOrderResolver(b.commissionFee, instruments)
	simulation := NewSimulation(ds, b.strategy, resolver, ledger, b.log, callbacks.OnProcessData)

	status, err := simulation.Run(ctx)
	if err != nil {
		return types.BacktestStats{}, err
	}

	history := ledger.History()

	analyzer, err := performance.NewAnalyzer(history, alignedBenchmarks(ds.Benchmarks(), len(history)), b.config.PeriodsPerYear)
	if err != nil {
		return types.BacktestStats{}, err
	}

	benchmarkStats := make(map[string]types.PerformanceStats)
	for name, s := range analyzer.BenchmarkStats(b.config.RiskFree) {
		benchmarkStats[name] = performance.RoundStats(s, statsPrecision)
	}

	resultFolderPath := getResultFolder(b, b.strategy.Name(), instruments)

	stats = types.BacktestStats{
		ID:            runID,
		Timestamp:     time.Now(),
		EngineVersion: version.GetVersion(),
		Strategy: types.StrategyInfo{
			Name:        b.strategy.Name(),
			Instruments: instruments,
		},
		Status:            status,
		Bars:              len(history),
		Transactions:      simulation.Transactions(),
		InitialCapital:    b.config.InitialCapital,
		FinalTotal:        history[len(history)-1].State.Total,
		TotalFees:         ledger.TotalFees(),
		PeriodsPerYear:    b.config.PeriodsPerYear,
		Performance:       performance.RoundStats(analyzer.Stats(b.config.RiskFree), statsPrecision),
		SnapshotsFilePath: filepath.Join(resultFolderPath, snapshotsFileName),
		FillsFilePath:     filepath.Join(resultFolderPath, fillsFileName),
	}

	if len(benchmarkStats) > 0 {
		stats.Benchmarks = benchmarkStats
	}

	b.log.Info("Backtest finished",
		zap.String("status", string(status)),
		zap.Int("bars", stats.Bars),
		zap.Int("transactions", stats.Transactions),
		zap.Float64("final_total", stats.FinalTotal),
		zap.Float64("annualized_return", stats.Performance.AnnualizedReturn),
		zap.Float64("max_drawdown", stats.Performance.MaxDrawdown),
	)

	if err := b.writeResults(ledger, &stats, resultFolderPath); err != nil {
		return types.BacktestStats{}, fmt.Errorf("failed to write results: %w", err)
	}

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(runID, status, resultFolderPath)
	}

	return stats, nil
}

// loadDataSource returns the data source set by SetDataSource, rewound to its first bar, or
// loads the configured data files.
func (b *BacktestEngineV1) loadDataSource() (datasource.DataSource, error) {
	if b.datasource != nil {
		b.datasource.Reset()

		return b.datasource, nil
	}

	opts := datasource.LoadOptions{
		StartTime: b.config.StartTime,
		EndTime:   b.config.EndTime,
	}

	for _, ticker := range b.config.Tickers {
		opts.Instruments = append(opts.Instruments, datasource.Source{Symbol: ticker, Path: b.config.DataPath(ticker)})
	}

	for _, benchmark := range b.config.Benchmarks {
		opts.Benchmarks = append(opts.Benchmarks, datasource.Source{Symbol: benchmark, Path: b.config.DataPath(benchmark)})
	}

	if provider, ok := b.strategy.(strategy.IndicatorProvider); ok {
		indicators, err := provider.Indicators()
		if err != nil {
			return nil, err
		}

		registry, err := indicator.NewIndicatorRegistry(indicators...)
		if err != nil {
			return nil, err
		}

		b.log.Debug("Indicators registered", zap.Strings("indicators", registry.ListIndicators()))
		opts.Preprocess = registry.Preprocess
	}

	return datasource.Load(opts, b.log)
}

// alignedBenchmarks cuts every benchmark to the first n bars so it matches a history that
// stopped early.
func alignedBenchmarks(benchmarks []types.PriceSeries, n int) []types.PriceSeries {
	aligned := make([]types.PriceSeries, 0, len(benchmarks))

	for _, benchmark := range benchmarks {
		if benchmark.Len() > n {
			benchmark.Times = benchmark.Times[:n]
			benchmark.Values = benchmark.Values[:n]
		}

		aligned = append(aligned, benchmark)
	}

	return aligned
}

func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// Close implements engine.Engine.
func (b *BacktestEngineV1) Close() error {
	if b.state == nil {
		return nil
	}

	err := b.state.Close()
	b.state = nil

	if err != nil {
		return fmt.Errorf("failed to close backtest state: %w", err)
	}

	return nil
}

func (b *BacktestEngineV1) writeResults(ledger *Ledger, stats *types.BacktestStats, resultFolderPath string) error {
	if err := prepareResultFolder(resultFolderPath); err != nil {
		return err
	}

	defer func() {
		if err := b.state.Cleanup(); err != nil {
			b.log.Error("Failed to cleanup state", zap.Error(err))
		}
	}()

	if err := b.state.RecordSnapshots(ledger.History()); err != nil {
		return err
	}

	if err := b.state.RecordFills(ledger.Fills()); err != nil {
		return err
	}

	recorded, err := b.state.CountSnapshots()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to count snapshots", err)
	}

	if recorded != stats.Bars {
		return errors.Newf(errors.ErrCodeBacktestWriteFailed, "recorded %d bars, expected %d", recorded, stats.Bars)
	}

	fills, err := b.state.GetFills()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to read fills", err)
	}

	stats.Fills = len(fills)
	for _, fill := range fills {
		if fill.Closed {
			stats.ClosedPositions++
		}
	}

	if err := b.state.Write(resultFolderPath); err != nil {
		return err
	}

	// Write stats to file
	if err := types.WriteBacktestStats(filepath.Join(resultFolderPath, "stats.yaml"), *stats); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write stats", err)
	}

	return nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.log == nil || b.state == nil {
		return errors.New(errors.ErrCodeBacktestInitFailed, "engine is not initialized")
	}

	if b.resultsFolder == "" {
		b.log.Error("No results folder set")

		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	return nil
}
