package commission_fee

// CommissionFee models the transaction cost charged when entering a position.
// Costs are a flat fraction of traded notional so the order resolver can size quantities
// net of the fee.
type CommissionFee interface {
	// Rate returns the fraction of traded notional charged as a fee.
	Rate() float64
	// Calculate returns the fee for a traded notional (|quantity * price|).
	Calculate(notional float64) float64
}

type Broker string

const (
	BrokerFlatRate Broker = "flat_rate"
	BrokerZero     Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerFlatRate,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model for broker. Unknown brokers fall back to zero
// commission; rate is ignored for the zero broker.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerFlatRate:
		return NewFlatRateCommissionFee(rate)
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
