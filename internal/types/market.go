package types

import "time"

// Well known market data fields.
const (
	// FieldClose is the bar close, used for mark-to-market.
	FieldClose = "close"
	// FieldTransaction is the execution price for orders placed on the bar, conventionally the
	// next bar's open.
	FieldTransaction = "transaction"
	FieldOpen        = "open"
	FieldHigh        = "high"
	FieldLow         = "low"
	FieldVolume      = "volume"
)

// MarketData is one row of aligned market data for a symbol.
type MarketData struct {
	Symbol      string    `csv:"symbol"`
	Time        time.Time `csv:"time"`
	Open        float64   `csv:"open"`
	High        float64   `csv:"high"`
	Low         float64   `csv:"low"`
	Close       float64   `csv:"close"`
	Volume      float64   `csv:"volume"`
	Transaction float64   `csv:"transaction"`
	// Extra holds strategy specific columns such as precomputed moving averages.
	Extra map[string]float64 `csv:"-"`
}

// Field looks up a named field. The OHLCV and transaction columns are always present; any other
// name is looked up in Extra.
func (m MarketData) Field(name string) (float64, bool) {
	switch name {
	case FieldOpen:
		return m.Open, true
	case FieldHigh:
		return m.High, true
	case FieldLow:
		return m.Low, true
	case FieldClose:
		return m.Close, true
	case FieldVolume:
		return m.Volume, true
	case FieldTransaction:
		return m.Transaction, true
	}

	value, ok := m.Extra[name]

	return value, ok
}

// SetField writes a named field, storing unknown names in Extra.
func (m *MarketData) SetField(name string, value float64) {
	switch name {
	case FieldOpen:
		m.Open = value
	case FieldHigh:
		m.High = value
	case FieldLow:
		m.Low = value
	case FieldClose:
		m.Close = value
	case FieldVolume:
		m.Volume = value
	case FieldTransaction:
		m.Transaction = value
	default:
		if m.Extra == nil {
			m.Extra = make(map[string]float64)
		}

		m.Extra[name] = value
	}
}

// PriceSeries is a named column of prices aligned to a time index.
type PriceSeries struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// Len returns the number of observations in the series.
func (s PriceSeries) Len() int {
	return len(s.Values)
}
