package strategy

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/mocks"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type StrategyTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	ds   *mocks.MockDataSource
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func (suite *StrategyTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.ds = mocks.NewMockDataSource(suite.ctrl)
}

func (suite *StrategyTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *StrategyTestSuite) TestNew() {
	s, err := New(Config{Type: StrategyTypeBuyHold})
	suite.Require().NoError(err)
	suite.Equal("Buy_Hold", s.Name())

	s, err = New(Config{Type: StrategyTypeMovingAverageCross, ShortWindow: 5, LongWindow: 20, MAType: indicator.MATypeExponential})
	suite.Require().NoError(err)

	cross, ok := s.(*MovingAverageCross)
	suite.Require().True(ok)
	suite.Equal(5, cross.shortWindow)
	suite.Equal(20, cross.longWindow)
	suite.Equal(indicator.MATypeExponential, cross.maType)

	_, err = New(Config{Type: "pairs"})
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedStrategy))
}

func (suite *StrategyTestSuite) TestBuyHoldEntersOnce() {
	s := NewBuyHold()
	suite.Require().NoError(s.Initialize([]string{"A", "B", "C", "D"}))

	suite.ds.EXPECT().Instruments().Return([]string{"A", "B", "C", "D"}).Times(1)

	state := types.NewPortfolioState([]string{"A", "B", "C", "D"}, 1000)

	signal, err := s.GenerateSignal(suite.ds, state)
	suite.Require().NoError(err)
	suite.Require().True(signal.IsSome())

	enter, ok := signal.Unwrap().(types.EnterSignal)
	suite.Require().True(ok)
	suite.Equal(map[string]float64{"A": 0.25, "B": 0.25, "C": 0.25, "D": 0.25}, enter.Weights)
	suite.Equal(StatusLong, s.Status())

	for i := 0; i < 3; i++ {
		signal, err = s.GenerateSignal(suite.ds, state)
		suite.Require().NoError(err)
		suite.True(signal.IsNone())
	}
}

func (suite *StrategyTestSuite) TestBuyHoldInitialize() {
	err := NewBuyHold().Initialize(nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *StrategyTestSuite) TestMovingAverageCrossDefaults() {
	s := NewMovingAverageCross(0, 0, "")
	suite.Equal(DefaultShortWindow, s.shortWindow)
	suite.Equal(DefaultLongWindow, s.longWindow)
	suite.Equal(indicator.MATypeSimple, s.maType)

	indicators, err := s.Indicators()
	suite.Require().NoError(err)
	suite.Require().Len(indicators, 2)
	suite.Equal([]string{indicator.ColumnMAShort}, indicators[0].Columns())
	suite.Equal([]string{indicator.ColumnMALong}, indicators[1].Columns())
	suite.Equal(29, indicators[1].Warmup())
}

func (suite *StrategyTestSuite) TestMovingAverageCrossInitialize() {
	err := NewMovingAverageCross(10, 30, indicator.MATypeSimple).Initialize([]string{"A", "B"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	err = NewMovingAverageCross(30, 10, indicator.MATypeSimple).Initialize([]string{"A"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	suite.NoError(NewMovingAverageCross(10, 30, indicator.MATypeSimple).Initialize([]string{"A"}))
}

func (suite *StrategyTestSuite) TestMovingAverageCrossSignals() {
	s := NewMovingAverageCross(10, 30, indicator.MATypeSimple)
	suite.Require().NoError(s.Initialize([]string{"600030.SH"}))

	bars := []struct {
		short, long float64
		expected    *types.SignalType
	}{
		{9, 10, nil},
		{math.NaN(), 10, nil},
		{11, 10, ptr(types.SignalTypeEnter)},
		{12, 10, nil},
		{10, 10, nil},
		{9, 10, ptr(types.SignalTypeExit)},
		{8, 10, nil},
		{10.5, 10, ptr(types.SignalTypeEnter)},
	}

	suite.ds.EXPECT().Instruments().Return([]string{"600030.SH"}).AnyTimes()

	state := types.NewPortfolioState([]string{"600030.SH"}, 1000)

	for i, bar := range bars {
		gomock.InOrder(
			suite.ds.EXPECT().Value("600030.SH", indicator.ColumnMAShort).Return(bar.short, nil),
			suite.ds.EXPECT().Value("600030.SH", indicator.ColumnMALong).Return(bar.long, nil),
		)

		signal, err := s.GenerateSignal(suite.ds, state)
		suite.Require().NoError(err)

		if bar.expected == nil {
			suite.True(signal.IsNone(), "bar %d", i)

			continue
		}

		suite.Require().True(signal.IsSome(), "bar %d", i)
		sig := signal.Unwrap()
		suite.Equal(*bar.expected, sig.Type(), "bar %d", i)

		switch v := sig.(type) {
		case types.EnterSignal:
			suite.Equal(map[string]float64{"600030.SH": 1}, v.Weights)
		case types.ExitSignal:
			suite.Equal(map[string]float64{"600030.SH": 1}, v.Ratios)
		}
	}

	suite.Equal(StatusLong, s.Status())
}

func (suite *StrategyTestSuite) TestMovingAverageCrossFieldError() {
	s := NewMovingAverageCross(10, 30, indicator.MATypeSimple)
	suite.Require().NoError(s.Initialize([]string{"A"}))

	suite.ds.EXPECT().Instruments().Return([]string{"A"})
	suite.ds.EXPECT().Value("A", indicator.ColumnMAShort).
		Return(0.0, errors.New(errors.ErrCodeFieldNotFound, "field MA-short not found"))

	_, err := s.GenerateSignal(suite.ds, types.NewPortfolioState([]string{"A"}, 1000))
	suite.True(errors.HasCode(err, errors.ErrCodeFieldNotFound))
	suite.Equal(StatusEmpty, s.Status())
}

func ptr[T any](v T) *T {
	return &v
}
