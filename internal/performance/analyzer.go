package performance

import (
	"slices"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Analyzer derives return series and risk statistics from a snapshot history and any number of
// benchmark price series sharing its time index.
type Analyzer struct {
	index          []time.Time
	returns        []float64
	cumulative     []float64
	benchmarks     map[string][]float64
	benchmarkNames []string
	periodsPerYear float64
}

// NewAnalyzer builds an analyzer. Every benchmark must carry exactly the history's timestamps;
// otherwise it fails with ErrCodeIndexMismatch.
func NewAnalyzer(history []types.Snapshot, benchmarks []types.PriceSeries, periodsPerYear float64) (*Analyzer, error) {
	if len(history) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyHistory, "cannot analyze an empty snapshot history")
	}

	if periodsPerYear <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "periods per year must be positive, got %v", periodsPerYear)
	}

	index := make([]time.Time, len(history))
	totals := make([]float64, len(history))

	for i, snapshot := range history {
		index[i] = snapshot.Time
		totals[i] = snapshot.State.Total
	}

	returns := Returns(totals)

	a := &Analyzer{
		index:          index,
		returns:        returns,
		cumulative:     CumulativeReturns(returns),
		benchmarks:     make(map[string][]float64, len(benchmarks)),
		periodsPerYear: periodsPerYear,
	}

	for _, benchmark := range benchmarks {
		if !slices.EqualFunc(benchmark.Times, index, time.Time.Equal) {
			return nil, errors.Newf(errors.ErrCodeIndexMismatch,
				"benchmark %s is not aligned to the strategy time index", benchmark.Name)
		}

		if _, exists := a.benchmarks[benchmark.Name]; !exists {
			a.benchmarkNames = append(a.benchmarkNames, benchmark.Name)
		}

		a.benchmarks[benchmark.Name] = Returns(benchmark.Values)
	}

	return a, nil
}

func (a *Analyzer) Index() []time.Time {
	return slices.Clone(a.index)
}

func (a *Analyzer) Returns() []float64 {
	return slices.Clone(a.returns)
}

func (a *Analyzer) CumulativeReturns() []float64 {
	return slices.Clone(a.cumulative)
}

// Benchmarks returns the benchmark names in the order they were given.
func (a *Analyzer) Benchmarks() []string {
	return slices.Clone(a.benchmarkNames)
}

func (a *Analyzer) BenchmarkReturns(name string) ([]float64, error) {
	returns, ok := a.benchmarks[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "unknown benchmark %s", name)
	}

	return slices.Clone(returns), nil
}

func (a *Analyzer) BenchmarkCumulativeReturns(name string) ([]float64, error) {
	returns, err := a.BenchmarkReturns(name)
	if err != nil {
		return nil, err
	}

	return CumulativeReturns(returns), nil
}

// ExcessReturns returns the strategy returns minus the benchmark returns, bar by bar.
func (a *Analyzer) ExcessReturns(name string) ([]float64, error) {
	benchmark, err := a.BenchmarkReturns(name)
	if err != nil {
		return nil, err
	}

	excess := make([]float64, len(a.returns))
	for i := range a.returns {
		excess[i] = a.returns[i] - benchmark[i]
	}

	return excess, nil
}

// Stats computes the scalar statistics of the strategy.
func (a *Analyzer) Stats(riskFree float64) types.PerformanceStats {
	return ComputeStats(a.returns, riskFree, a.periodsPerYear)
}

// BenchmarkStats computes the same statistics for every benchmark.
func (a *Analyzer) BenchmarkStats(riskFree float64) map[string]types.PerformanceStats {
	stats := make(map[string]types.PerformanceStats, len(a.benchmarks))
	for name, returns := range a.benchmarks {
		stats[name] = ComputeStats(returns, riskFree, a.periodsPerYear)
	}

	return stats
}

// ComputeStats derives the nine summary statistics from a return series.
func ComputeStats(returns []float64, riskFree float64, periodsPerYear float64) types.PerformanceStats {
	cumulative := CumulativeReturns(returns)

	return types.PerformanceStats{
		AnnualizedReturn:   AnnualizedReturn(cumulative, periodsPerYear),
		Volatility:         Volatility(returns, periodsPerYear),
		RiskAdjustedReturn: RiskAdjustedReturn(returns, periodsPerYear),
		DownsideDeviation:  DownsideDeviation(returns, periodsPerYear),
		MaxDrawdown:        MaxDrawdown(cumulative),
		SharpeRatio:        SharpeRatio(returns, riskFree, periodsPerYear),
		SortinoRatio:       SortinoRatio(returns, periodsPerYear),
		Skewness:           Skewness(returns),
		Kurtosis:           Kurtosis(returns),
	}
}

// RoundStats rounds every statistic to places decimals for reporting.
func RoundStats(stats types.PerformanceStats, places int32) types.PerformanceStats {
	return types.PerformanceStats{
		AnnualizedReturn:   Round(stats.AnnualizedReturn, places),
		Volatility:         Round(stats.Volatility, places),
		RiskAdjustedReturn: Round(stats.RiskAdjustedReturn, places),
		DownsideDeviation:  Round(stats.DownsideDeviation, places),
		MaxDrawdown:        Round(stats.MaxDrawdown, places),
		SharpeRatio:        Round(stats.SharpeRatio, places),
		SortinoRatio:       Round(stats.SortinoRatio, places),
		Skewness:           Round(stats.Skewness, places),
		Kurtosis:           Round(stats.Kurtosis, places),
	}
}
