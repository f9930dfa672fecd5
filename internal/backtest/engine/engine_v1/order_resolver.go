package engine

import (
	"math"
	"slices"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// PriceLookup returns the execution price of instrument on the current bar.
type PriceLookup func(instrument string) (float64, error)

// OrderResolver turns signals into orders. It holds no portfolio state: resolving the same
// signal against the same cash and prices always yields the same order.
type OrderResolver struct {
	fee         commission_fee.CommissionFee
	instruments []string
}

func NewOrderResolver(fee commission_fee.CommissionFee, instruments []string) *OrderResolver {
	return &OrderResolver{
		fee:         fee,
		instruments: slices.Clone(instruments),
	}
}

// Resolve sizes an EnterSignal into share quantities and passes an ExitSignal through.
//
// For each entry weight w the allocation cash*w buys cash*w / ((1+rate)*price) shares, leaving
// room for the fee, which is summed into the order's transaction cost. Exits are never charged.
func (r *OrderResolver) Resolve(signal types.Signal, cash float64, prices PriceLookup) (types.Order, error) {
	switch s := signal.(type) {
	case types.EnterSignal:
		return r.resolveEnter(s, cash, prices)
	case types.ExitSignal:
		return r.resolveExit(s)
	case nil:
		return nil, errors.New(errors.ErrCodeInvalidSignal, "signal is nil")
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidSignal, "unsupported signal type %T", signal)
	}
}

func (r *OrderResolver) resolveEnter(signal types.EnterSignal, cash float64, prices PriceLookup) (types.Order, error) {
	order := types.EnterOrder{
		Quantities: make(map[string]float64, len(signal.Weights)),
	}

	for _, instrument := range signal.Instruments() {
		if err := r.checkInstrument(instrument); err != nil {
			return nil, err
		}

		weight := signal.Weights[instrument]
		if !isFinite(weight) {
			return nil, errors.Newf(errors.ErrCodeInvalidSignal, "weight for %s is not finite: %v", instrument, weight)
		}

		price, err := prices(instrument)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidSignal, err, "no execution price for %s", instrument)
		}

		if !isFinite(price) || price <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidSignal, "execution price for %s must be positive, got %v", instrument, price)
		}

		quantity := cash * weight / ((1 + r.fee.Rate()) * price)
		order.Quantities[instrument] = quantity
		order.TransactionCost += r.fee.Calculate(quantity * price)
	}

	return order, nil
}

func (r *OrderResolver) resolveExit(signal types.ExitSignal) (types.Order, error) {
	order := types.ExitOrder{
		Ratios: make(map[string]float64, len(signal.Ratios)),
	}

	for _, instrument := range signal.Instruments() {
		if err := r.checkInstrument(instrument); err != nil {
			return nil, err
		}

		ratio := signal.Ratios[instrument]
		if !isFinite(ratio) || ratio < 0 || ratio > 1 {
			return nil, errors.Newf(errors.ErrCodeInvalidSignal, "exit ratio for %s must be within [0, 1], got %v", instrument, ratio)
		}

		order.Ratios[instrument] = ratio
	}

	return order, nil
}

func (r *OrderResolver) checkInstrument(instrument string) error {
	if !slices.Contains(r.instruments, instrument) {
		return errors.Newf(errors.ErrCodeInvalidSignal, "signal names unknown instrument %s", instrument)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
