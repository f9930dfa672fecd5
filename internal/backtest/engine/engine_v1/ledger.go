package engine

import (
	"math"
	"slices"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// quantities within this many decimals of zero close the position
const flattenPrecision = 3

// Ledger owns the portfolio state of a run. It is the only writer of cash and positions and
// keeps total equal to cash plus the realizable value of every position after each call.
type Ledger struct {
	ds        datasource.DataSource
	state     types.PortfolioState
	history   []types.Snapshot
	fills     []types.Fill
	totalFees float64
	log       *logger.Logger
}

// NewLedger starts a ledger holding initialCapital in cash and a flat position for every
// instrument of ds.
func NewLedger(ds datasource.DataSource, initialCapital float64, log *logger.Logger) *Ledger {
	return &Ledger{
		ds:    ds,
		state: types.NewPortfolioState(ds.Instruments(), initialCapital),
		log:   log,
	}
}

// UpdateFromMarket marks every open position to the close of the current bar. Flat positions
// are left untouched. Calling it twice on the same bar changes nothing.
func (l *Ledger) UpdateFromMarket() error {
	for _, instrument := range l.state.Instruments() {
		position := l.state.Positions[instrument]
		if position.IsFlat() {
			continue
		}

		price, err := l.ds.Value(instrument, types.FieldClose)
		if err != nil {
			return err
		}

		if !isFinite(price) {
			return errors.Newf(errors.ErrCodeMalformedData, "close of %s at %s is not a number",
				instrument, l.ds.CurrentTime())
		}

		l.state.Positions[instrument] = position.Mark(price)
	}

	l.recomputeTotal()

	return nil
}

// Apply settles an order against the current bar, then debits its transaction cost.
func (l *Ledger) Apply(order types.Order) error {
	var cost float64

	switch o := order.(type) {
	case types.EnterOrder:
		for _, instrument := range o.Instruments() {
			if err := l.enter(instrument, o.Quantities[instrument]); err != nil {
				return err
			}
		}

		cost = o.TransactionCost
	case types.ExitOrder:
		for _, instrument := range o.Instruments() {
			l.exit(instrument, o.Ratios[instrument])
		}
	default:
		return errors.Newf(errors.ErrCodeInvalidOrder, "unsupported order type %T", order)
	}

	l.state.Cash -= cost
	l.totalFees += cost
	l.recomputeTotal()

	return nil
}

func (l *Ledger) enter(instrument string, quantity float64) error {
	old, ok := l.state.Positions[instrument]
	if !ok {
		return errors.Newf(errors.ErrCodeInstrumentNotFound, "instrument %s is not held by the portfolio", instrument)
	}

	if !isFinite(quantity) {
		return errors.Newf(errors.ErrCodeInvalidOrder, "quantity for %s is not finite: %v", instrument, quantity)
	}

	if quantity == 0 {
		return nil
	}

	price, err := l.ds.Value(instrument, types.FieldTransaction)
	if err != nil {
		return err
	}

	newQuantity := old.Quantity + quantity
	fill := types.Fill{
		Time:       l.ds.CurrentTime(),
		Instrument: instrument,
		Type:       types.SignalTypeEnter,
		Quantity:   quantity,
		Price:      price,
	}

	if decimal.NewFromFloat(newQuantity).Round(flattenPrecision).IsZero() {
		// an offsetting trade closes the position at its last realizable value
		fill.CashDelta = old.RealizableValue
		fill.Closed = true
		l.state.Cash += old.RealizableValue
		l.state.Positions[instrument] = types.Position{}
	} else {
		notional := quantity * price
		costBasis := math.Abs(old.SignedCostBasis() + notional)

		fill.CashDelta = -math.Abs(notional)
		l.state.Cash -= math.Abs(notional)
		l.state.Positions[instrument] = types.NewPosition(newQuantity, price, costBasis)
	}

	l.fills = append(l.fills, fill)
	l.log.Debug("Enter settled",
		zap.String("instrument", instrument),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
		zap.Float64("cash", l.state.Cash),
	)

	return nil
}

func (l *Ledger) exit(instrument string, ratio float64) {
	position := l.state.Positions[instrument]
	if ratio == 0 || position.IsFlat() {
		return
	}

	fill := types.Fill{
		Time:       l.ds.CurrentTime(),
		Instrument: instrument,
		Type:       types.SignalTypeExit,
		Quantity:   -position.Quantity * ratio,
		Price:      position.MarketPrice,
		Ratio:      ratio,
	}

	remaining := position.Quantity * (1 - ratio)
	if ratio == 1 || decimal.NewFromFloat(remaining).Round(flattenPrecision).IsZero() {
		fill.Quantity = -position.Quantity
		fill.CashDelta = position.RealizableValue
		fill.Closed = true
		l.state.Cash += position.RealizableValue
		l.state.Positions[instrument] = types.Position{}
	} else {
		fill.CashDelta = position.RealizableValue * ratio
		l.state.Cash += position.RealizableValue * ratio
		l.state.Positions[instrument] = position.Scale(1 - ratio)
	}

	l.fills = append(l.fills, fill)
	l.log.Debug("Exit settled",
		zap.String("instrument", instrument),
		zap.Float64("ratio", ratio),
		zap.Float64("cash", l.state.Cash),
	)
}

// Record appends a snapshot of the state tagged with the current bar's time.
func (l *Ledger) Record() types.Snapshot {
	snapshot := types.NewSnapshot(l.ds.CurrentTime(), l.state)
	l.history = append(l.history, snapshot)

	return snapshot
}

func (l *Ledger) recomputeTotal() {
	l.state.Total = l.state.Cash + l.state.RealizableValue()
}

// State returns a copy of the current portfolio state.
func (l *Ledger) State() types.PortfolioState {
	return l.state.Clone()
}

func (l *Ledger) History() []types.Snapshot {
	return slices.Clone(l.history)
}

func (l *Ledger) Fills() []types.Fill {
	return slices.Clone(l.fills)
}

// TotalFees is the transaction cost charged so far.
func (l *Ledger) TotalFees() float64 {
	return l.totalFees
}
