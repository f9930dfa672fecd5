package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// IndicatorRegistry holds the indicators a strategy needs, in registration order.
type IndicatorRegistry struct {
	indicators []Indicator
	columns    map[string]string
}

// NewIndicatorRegistry creates a registry holding indicators.
func NewIndicatorRegistry(indicators ...Indicator) (*IndicatorRegistry, error) {
	r := &IndicatorRegistry{
		columns: make(map[string]string),
	}

	for _, indicator := range indicators {
		if err := r.RegisterIndicator(indicator); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// RegisterIndicator adds an indicator. Two indicators may not write the same column.
func (r *IndicatorRegistry) RegisterIndicator(indicator Indicator) error {
	for _, column := range indicator.Columns() {
		if owner, exists := r.columns[column]; exists {
			return fmt.Errorf("RegisterIndicator: column %s of %s already written by %s", column, indicator.Name(), owner)
		}
	}

	for _, column := range indicator.Columns() {
		r.columns[column] = indicator.Name()
	}

	r.indicators = append(r.indicators, indicator)

	return nil
}

// ListIndicators returns the registered indicator names.
func (r *IndicatorRegistry) ListIndicators() []string {
	names := make([]string, 0, len(r.indicators))
	for _, indicator := range r.indicators {
		names = append(names, indicator.Name())
	}

	return names
}

// Warmup returns the longest warm-up window of any registered indicator.
func (r *IndicatorRegistry) Warmup() int {
	warmup := 0
	for _, indicator := range r.indicators {
		warmup = max(warmup, indicator.Warmup())
	}

	return warmup
}

// Preprocess applies every indicator to rows and drops the warm-up rows.
func (r *IndicatorRegistry) Preprocess(rows []types.MarketData) ([]types.MarketData, error) {
	for _, indicator := range r.indicators {
		if err := indicator.Apply(rows); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", indicator.Name(), err)
		}
	}

	return rows[r.Warmup():], nil
}
