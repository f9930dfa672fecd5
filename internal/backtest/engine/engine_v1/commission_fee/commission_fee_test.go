package commission_fee

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommissionFeeTestSuite struct {
	suite.Suite
}

func TestCommissionFeeSuite(t *testing.T) {
	suite.Run(t, new(CommissionFeeTestSuite))
}

func (suite *CommissionFeeTestSuite) TestZeroCommissionFee() {
	fee := NewZeroCommissionFee()
	suite.NotNil(fee)
	suite.Equal(0.0, fee.Rate())

	tests := []struct {
		name     string
		notional float64
		expected float64
	}{
		{"zero notional", 0, 0},
		{"small notional", 10, 0},
		{"large notional", 10000, 0},
		{"negative notional", -100, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			result := fee.Calculate(tc.notional)
			suite.Equal(tc.expected, result)
		})
	}
}

func (suite *CommissionFeeTestSuite) TestFlatRateCommissionFee() {
	fee := NewFlatRateCommissionFee(0.001)
	suite.NotNil(fee)
	suite.Equal(0.001, fee.Rate())

	tests := []struct {
		name     string
		notional float64
		expected float64
	}{
		{"zero notional", 0, 0},
		{"long notional", 1000, 1.0},
		{"short notional is charged on its absolute value", -1000, 1.0},
		{"large notional", 250000, 250.0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			result := fee.Calculate(tc.notional)
			suite.InDelta(tc.expected, result, 1e-12)
		})
	}
}

func (suite *CommissionFeeTestSuite) TestGetCommissionFeeHandler() {
	tests := []struct {
		name         string
		broker       Broker
		rate         float64
		expectedRate float64
	}{
		{
			name:         "flat rate",
			broker:       BrokerFlatRate,
			rate:         0.002,
			expectedRate: 0.002,
		},
		{
			name:         "zero commission ignores rate",
			broker:       BrokerZero,
			rate:         0.002,
			expectedRate: 0,
		},
		{
			name:         "unknown broker defaults to zero",
			broker:       Broker("unknown"),
			rate:         0.002,
			expectedRate: 0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			handler := GetCommissionFeeHandler(tc.broker, tc.rate)
			suite.NotNil(handler)
			suite.Equal(tc.expectedRate, handler.Rate())
		})
	}
}
