package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

const (
	DefaultShortWindow = 10
	DefaultLongWindow  = 30
)

// MovingAverageCross goes long one instrument when the short moving average rises above the
// long one and closes out when it falls below. It never shorts.
type MovingAverageCross struct {
	shortWindow int
	longWindow  int
	maType      indicator.MAType
	status      Status
}

// NewMovingAverageCross creates the strategy. Zero windows and an empty type fall back to a
// 10/30 simple moving average.
func NewMovingAverageCross(shortWindow, longWindow int, maType indicator.MAType) *MovingAverageCross {
	if shortWindow == 0 {
		shortWindow = DefaultShortWindow
	}

	if longWindow == 0 {
		longWindow = DefaultLongWindow
	}

	if maType == "" {
		maType = indicator.MATypeSimple
	}

	return &MovingAverageCross{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		maType:      maType,
		status:      StatusEmpty,
	}
}

func (s *MovingAverageCross) Name() string {
	return "Simple_Moving_Average"
}

func (s *MovingAverageCross) Initialize(instruments []string) error {
	if len(instruments) != 1 {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"moving average cross trades a single instrument, got %d", len(instruments))
	}

	if s.shortWindow >= s.longWindow {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"short window %d must be less than long window %d", s.shortWindow, s.longWindow)
	}

	s.status = StatusEmpty

	return nil
}

// Indicators returns the moving averages the strategy reads.
func (s *MovingAverageCross) Indicators() ([]indicator.Indicator, error) {
	short, err := indicator.NewMA(s.maType, s.shortWindow, types.FieldClose, indicator.ColumnMAShort)
	if err != nil {
		return nil, err
	}

	long, err := indicator.NewMA(s.maType, s.longWindow, types.FieldClose, indicator.ColumnMALong)
	if err != nil {
		return nil, err
	}

	return []indicator.Indicator{short, long}, nil
}

func (s *MovingAverageCross) GenerateSignal(ds datasource.DataSource, _ types.PortfolioState) (optional.Option[types.Signal], error) {
	instrument := ds.Instruments()[0]

	short, err := ds.Value(instrument, indicator.ColumnMAShort)
	if err != nil {
		return optional.None[types.Signal](), fmt.Errorf("failed to read short moving average: %w", err)
	}

	long, err := ds.Value(instrument, indicator.ColumnMALong)
	if err != nil {
		return optional.None[types.Signal](), fmt.Errorf("failed to read long moving average: %w", err)
	}

	switch {
	case s.status == StatusEmpty && short > long:
		s.status = StatusLong

		return optional.Some[types.Signal](types.Enter(map[string]float64{instrument: 1})), nil
	case s.status == StatusLong && short < long:
		s.status = StatusEmpty

		return optional.Some[types.Signal](types.Exit(map[string]float64{instrument: 1})), nil
	default:
		return optional.None[types.Signal](), nil
	}
}

// Status returns the position the strategy believes it holds.
func (s *MovingAverageCross) Status() Status {
	return s.status
}
