package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// BuyHold enters every instrument with equal weight on the first bar and holds.
type BuyHold struct {
	status Status
}

func NewBuyHold() *BuyHold {
	return &BuyHold{status: StatusEmpty}
}

func (s *BuyHold) Name() string {
	return "Buy_Hold"
}

func (s *BuyHold) Initialize(instruments []string) error {
	if len(instruments) == 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "buy and hold needs at least one instrument")
	}

	s.status = StatusEmpty

	return nil
}

func (s *BuyHold) GenerateSignal(ds datasource.DataSource, _ types.PortfolioState) (optional.Option[types.Signal], error) {
	if s.status != StatusEmpty {
		return optional.None[types.Signal](), nil
	}

	instruments := ds.Instruments()
	weight := 1.0 / float64(len(instruments))

	weights := make(map[string]float64, len(instruments))
	for _, instrument := range instruments {
		weights[instrument] = weight
	}

	s.status = StatusLong

	return optional.Some[types.Signal](types.Enter(weights)), nil
}

// Status returns the position the strategy believes it holds.
func (s *BuyHold) Status() Status {
	return s.status
}
