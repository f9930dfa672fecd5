package engine

import (
	"context"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// Simulation drives one strategy over a data source bar by bar.
type Simulation struct {
	ds           datasource.DataSource
	strategy     strategy.Strategy
	resolver     *OrderResolver
	ledger       *Ledger
	log          *logger.Logger
	status       types.RunStatus
	transactions int
	onProcess    *engine.OnProcessDataCallback
}

func NewSimulation(
	ds datasource.DataSource,
	strategy strategy.Strategy,
	resolver *OrderResolver,
	ledger *Ledger,
	log *logger.Logger,
	onProcess *engine.OnProcessDataCallback,
) *Simulation {
	status := types.RunStatusRunning
	if ds.Done() {
		status = types.RunStatusCompleted
	}

	return &Simulation{
		ds:        ds,
		strategy:  strategy,
		resolver:  resolver,
		ledger:    ledger,
		log:       log,
		status:    status,
		onProcess: onProcess,
	}
}

// Run steps until the simulation reaches a terminal status. Cancellation is checked between bars.
func (s *Simulation) Run(ctx context.Context) (types.RunStatus, error) {
	for !s.status.IsTerminal() {
		select {
		case <-ctx.Done():
			return s.status, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", ctx.Err())
		default:
		}

		if err := s.Step(); err != nil {
			return s.status, err
		}
	}

	return s.status, nil
}

// Step processes the bar under the cursor: mark to market, ask for a signal, settle the order,
// record a snapshot, then either stop on bankruptcy or advance.
func (s *Simulation) Step() error {
	if s.status.IsTerminal() {
		return nil
	}

	if err := s.ledger.UpdateFromMarket(); err != nil {
		return err
	}

	signal, err := s.strategy.GenerateSignal(s.ds, s.ledger.State())
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "strategy %s failed at %s",
			s.strategy.Name(), s.ds.CurrentTime())
	}

	if signal.IsSome() {
		state := s.ledger.State()

		order, err := s.resolver.Resolve(signal.Unwrap(), state.Cash, func(instrument string) (float64, error) {
			return s.ds.Value(instrument, types.FieldTransaction)
		})
		if err != nil {
			return err
		}

		if err := s.ledger.Apply(order); err != nil {
			return err
		}

		s.transactions++
	}

	snapshot := s.ledger.Record()

	if snapshot.State.Total < 0 {
		s.status = types.RunStatusBankrupt
		s.log.Warn("Portfolio is bankrupt",
			zap.Time("time", snapshot.Time),
			zap.Float64("total", snapshot.State.Total),
		)

		return nil
	}

	s.ds.Advance()

	if s.onProcess != nil {
		if err := (*s.onProcess)(s.ds.Cursor(), s.ds.Len()); err != nil {
			return err
		}
	}

	if s.ds.Done() {
		s.status = types.RunStatusCompleted
	}

	return nil
}

func (s *Simulation) Status() types.RunStatus {
	return s.status
}

// Transactions counts the bars on which an order was settled.
func (s *Simulation) Transactions() int {
	return s.transactions
}

func (s *Simulation) Ledger() *Ledger {
	return s.ledger
}
