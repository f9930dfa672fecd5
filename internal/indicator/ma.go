package indicator

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// MAType selects the averaging method.
type MAType string

const (
	MATypeSimple      MAType = "sma"
	MATypeExponential MAType = "ema"
)

// Column names written by the moving average crossover preprocessing.
const (
	ColumnMAShort = "MA-short"
	ColumnMALong  = "MA-long"
)

// MA implements a moving average of one input field.
type MA struct {
	maType MAType
	period int
	field  string
	column string
}

// NewMA creates a moving average of field over period bars, written to column.
func NewMA(maType MAType, period int, field string, column string) (*MA, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "period must be a positive integer, got %d", period)
	}

	switch maType {
	case MATypeSimple, MATypeExponential:
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported moving average type %q", maType)
	}

	return &MA{
		maType: maType,
		period: period,
		field:  field,
		column: column,
	}, nil
}

// Name returns the name of the indicator.
func (m *MA) Name() string {
	return fmt.Sprintf("%s(%s,%d)", m.maType, m.field, m.period)
}

func (m *MA) Columns() []string {
	return []string{m.column}
}

func (m *MA) Warmup() int {
	return m.period - 1
}

func (m *MA) Apply(rows []types.MarketData) error {
	if len(rows) < m.period {
		symbol := ""
		if len(rows) > 0 {
			symbol = rows[0].Symbol
		}

		return errors.Newf(errors.ErrCodeInsufficientData,
			"%s needs %d rows for %s, got %d", m.Name(), m.period, symbol, len(rows))
	}

	inputs := make([]float64, len(rows))

	for i, row := range rows {
		value, ok := row.Field(m.field)
		if !ok {
			return errors.Newf(errors.ErrCodeFieldNotFound, "field %s not found for %s", m.field, m.Name())
		}

		inputs[i] = value
	}

	var values []float64

	switch m.maType {
	case MATypeExponential:
		values = talib.Ema(inputs, m.period)
	default:
		values = talib.Sma(inputs, m.period)
	}

	for i := range rows {
		if i < m.Warmup() {
			rows[i].SetField(m.column, math.NaN())

			continue
		}

		rows[i].SetField(m.column, values[i])
	}

	return nil
}
