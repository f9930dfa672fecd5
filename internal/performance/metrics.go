package performance

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// DefaultPeriodsPerYear annualizes 5-minute bars: 250 trading days of 4 hours.
const DefaultPeriodsPerYear = 250 * 4 * 12

// shortfall multiplier for the 99th percentile
const riskAdjustmentLambda = 2.33

// Returns computes simple per-period returns of values. The first return is 0 because it has
// no previous bar.
func Returns(values []float64) []float64 {
	returns := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		returns[i] = values[i]/values[i-1] - 1
	}

	return returns
}

// CumulativeReturns is the running product of (1 + r).
func CumulativeReturns(returns []float64) []float64 {
	cumulative := make([]float64, len(returns))
	product := 1.0

	for i, r := range returns {
		product *= 1 + r
		cumulative[i] = product
	}

	return cumulative
}

// MeanReturn is the annualized arithmetic mean return.
func MeanReturn(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}

	return stat.Mean(returns, nil) * periodsPerYear
}

// Volatility is the annualized sample standard deviation of returns.
func Volatility(returns []float64, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}

	return stat.StdDev(returns, nil) * math.Sqrt(periodsPerYear)
}

func SharpeRatio(returns []float64, riskFree float64, periodsPerYear float64) float64 {
	return (MeanReturn(returns, periodsPerYear) - riskFree) / Volatility(returns, periodsPerYear)
}

// DownsideDeviation is the annualized root mean square of the negative returns, averaged over
// every observation rather than only the negative ones.
func DownsideDeviation(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}

	sum := 0.0

	for _, r := range returns {
		if r < 0 {
			sum += r * r
		}
	}

	return math.Sqrt(sum/float64(len(returns))) * math.Sqrt(periodsPerYear)
}

func SortinoRatio(returns []float64, periodsPerYear float64) float64 {
	return MeanReturn(returns, periodsPerYear) / DownsideDeviation(returns, periodsPerYear)
}

// RiskAdjustedReturn is the mean return less 2.33 annualized volatilities.
func RiskAdjustedReturn(returns []float64, periodsPerYear float64) float64 {
	return MeanReturn(returns, periodsPerYear) - riskAdjustmentLambda*Volatility(returns, periodsPerYear)
}

// MaxDrawdown scans cumulative returns once, tracking the running peak and the lowest point
// since that peak. The drawdown of a peak window is measured when a new peak starts it over and
// once more at the end of the series. The result is zero or negative. Ties keep the earliest
// peak and trough.
func MaxDrawdown(cumulative []float64) float64 {
	if len(cumulative) == 0 {
		return 0
	}

	maxDrawdown := 0.0
	peak, trough := cumulative[0], cumulative[0]

	for _, value := range cumulative[1:] {
		switch {
		case value < trough:
			trough = value
		case value > peak:
			maxDrawdown = math.Min(maxDrawdown, (trough-peak)/peak)
			peak, trough = value, value
		}
	}

	return math.Min(maxDrawdown, (trough-peak)/peak)
}

// Skewness is the bias-corrected sample skewness of returns.
func Skewness(returns []float64) float64 {
	if len(returns) < 3 {
		return math.NaN()
	}

	return stat.Skew(returns, nil)
}

// Kurtosis is the bias-corrected sample excess kurtosis of returns.
func Kurtosis(returns []float64) float64 {
	if len(returns) < 4 {
		return math.NaN()
	}

	return stat.ExKurtosis(returns, nil)
}

// AnnualizedReturn annualizes the geometric mean per-period return of the series.
func AnnualizedReturn(cumulative []float64, periodsPerYear float64) float64 {
	if len(cumulative) == 0 {
		return math.NaN()
	}

	n := float64(len(cumulative))

	return (math.Pow(cumulative[len(cumulative)-1], 1/n) - 1) * periodsPerYear
}

// Round rounds value half away from zero to places decimals. NaN and infinities are returned
// unchanged.
func Round(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}

	rounded, _ := decimal.NewFromFloat(value).Round(places).Float64()

	return rounded
}
