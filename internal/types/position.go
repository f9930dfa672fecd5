package types

import "math"

// PositionType is the side of an open position, derived from the sign of its quantity.
type PositionType string

const (
	PositionTypeFlat  PositionType = "FLAT"
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
)

// Position is the accounting vector for one instrument.
//
// CostBasis is always non-negative; the long/short information lives only in the sign of
// Quantity. A flat position has every field equal to zero.
type Position struct {
	// Quantity is the signed number of shares held. Positive is long, negative is short.
	Quantity float64 `yaml:"quantity" json:"quantity"`
	// MarketPrice is the last observed price for the instrument.
	MarketPrice float64 `yaml:"market_price" json:"market_price"`
	// CostBasis is |quantity at entry * entry price|, accumulated across adds.
	CostBasis float64 `yaml:"cost_basis" json:"cost_basis"`
	// AvgCost is CostBasis / |Quantity|.
	AvgCost float64 `yaml:"avg_cost" json:"avg_cost"`
	// MarketValue is Quantity * MarketPrice and carries the sign of Quantity.
	MarketValue float64 `yaml:"market_value" json:"market_value"`
	// UnrealizedPnL is MarketValue - CostBasis for longs and MarketValue + CostBasis for shorts.
	UnrealizedPnL float64 `yaml:"unrealized_pnl" json:"unrealized_pnl"`
	// RealizableValue is the cash received if the position were closed at MarketPrice.
	RealizableValue float64 `yaml:"realizable_value" json:"realizable_value"`
}

// IsFlat reports whether the position holds no shares.
func (p Position) IsFlat() bool {
	return p.Quantity == 0
}

// Type returns the side of the position.
func (p Position) Type() PositionType {
	switch {
	case p.Quantity > 0:
		return PositionTypeLong
	case p.Quantity < 0:
		return PositionTypeShort
	default:
		return PositionTypeFlat
	}
}

// SignedCostBasis returns the cost basis carrying the sign of the quantity (0 when flat).
func (p Position) SignedCostBasis() float64 {
	if p.Quantity > 0 {
		return p.CostBasis
	}

	if p.Quantity < 0 {
		return -p.CostBasis
	}

	return 0
}

// UnrealizedPnL computes the profit of a position with the given quantity, market value and
// cost basis. Longs earn market value above cost, shorts earn cost above |market value|.
func UnrealizedPnL(quantity, marketValue, costBasis float64) float64 {
	if quantity > 0 {
		return marketValue - costBasis
	}

	return marketValue + costBasis
}

// NewPosition builds a fully consistent position vector from a quantity, a price and a cost basis.
func NewPosition(quantity, price, costBasis float64) Position {
	if quantity == 0 {
		return Position{}
	}

	marketValue := quantity * price
	pnl := UnrealizedPnL(quantity, marketValue, costBasis)

	return Position{
		Quantity:        quantity,
		MarketPrice:     price,
		CostBasis:       costBasis,
		AvgCost:         costBasis / math.Abs(quantity),
		MarketValue:     marketValue,
		UnrealizedPnL:   pnl,
		RealizableValue: costBasis + pnl,
	}
}

// Mark returns the position revalued at price. Flat positions are returned unchanged.
func (p Position) Mark(price float64) Position {
	if p.IsFlat() {
		return p
	}

	p.MarketPrice = price
	p.MarketValue = p.Quantity * price
	p.UnrealizedPnL = UnrealizedPnL(p.Quantity, p.MarketValue, p.CostBasis)
	p.RealizableValue = p.CostBasis + p.UnrealizedPnL

	return p
}

// Scale shrinks the size-dependent fields by factor. MarketPrice and AvgCost describe unit
// economics and are left untouched.
func (p Position) Scale(factor float64) Position {
	p.Quantity *= factor
	p.CostBasis *= factor
	p.MarketValue *= factor
	p.UnrealizedPnL *= factor
	p.RealizableValue *= factor

	return p
}
