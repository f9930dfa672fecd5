package engine

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/performance"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestEmptyConfig() {
	config := EmptyConfig()

	suite.Equal(0.0, config.InitialCapital)
	suite.Equal(commission_fee.BrokerFlatRate, config.Broker)
	suite.Equal(float64(performance.DefaultPeriodsPerYear), config.PeriodsPerYear)
	suite.Equal("info", config.LogLevel)
	suite.Equal(strategy.StrategyTypeBuyHold, config.Strategy.Type)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestTestConfig() {
	startTime := time.Date(2015, 1, 5, 0, 0, 0, 0, time.UTC)
	endTime := time.Date(2016, 12, 30, 0, 0, 0, 0, time.UTC)

	config := TestConfig(startTime, endTime, commission_fee.BrokerZero)

	suite.Equal(10000.0, config.InitialCapital)
	suite.Equal(commission_fee.BrokerZero, config.Broker)
	suite.Equal(startTime, config.StartTime.Unwrap())
	suite.Equal(endTime, config.EndTime.Unwrap())
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := &BacktestEngineV1Config{}
	schemaJSON, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)

	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schemaJSON), &result))
	suite.Equal("backtest-engine-v1-config", result["title"])
	suite.Equal("http://json-schema.org/draft-07/schema#", result["$schema"])

	properties, ok := result["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "tickers")
	suite.Contains(properties, "transaction_rate")

	broker, ok := properties["broker"].(map[string]any)
	suite.Require().True(ok)
	suite.ElementsMatch([]any{"flat_rate", "zero_commission"}, broker["enum"])

	startTime, ok := properties["start_time"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("date-time", startTime["format"])
}

func (suite *ConfigTestSuite) TestUnmarshalYAMLComplete() {
	yamlData := `
initial_capital: 100
broker: flat_rate
transaction_rate: 0.001
tickers: [600030.SH]
benchmarks: [000300.SH]
data_dir: ./resampled
data_paths:
  000300.SH: ./index/hs300.parquet
results_folder: ./out
periods_per_year: 12000
risk_free: 0.03
log_level: debug
strategy:
  type: moving_average_cross
  short_window: 5
  long_window: 20
  ma_type: ema
start_time: 2015-01-05T00:00:00Z
end_time: 2016-12-30T00:00:00Z
`

	config := EmptyConfig()
	suite.Require().NoError(yaml.Unmarshal([]byte(yamlData), &config))

	suite.Equal(100.0, config.InitialCapital)
	suite.Equal(0.001, config.TransactionRate)
	suite.Equal([]string{"600030.SH"}, config.Tickers)
	suite.Equal([]string{"000300.SH"}, config.Benchmarks)
	suite.Equal(0.03, config.RiskFree)
	suite.Equal(strategy.StrategyTypeMovingAverageCross, config.Strategy.Type)
	suite.Equal(5, config.Strategy.ShortWindow)
	suite.Equal(indicator.MATypeExponential, config.Strategy.MAType)
	suite.Equal(2015, config.StartTime.Unwrap().Year())
	suite.Equal(time.December, config.EndTime.Unwrap().Month())

	suite.Equal(filepath.Join("resampled", "600030.SH.csv"), config.DataPath("600030.SH"))
	suite.Equal("./index/hs300.parquet", config.DataPath("000300.SH"))
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestUnmarshalYAMLKeepsDefaults() {
	yamlData := `
initial_capital: 25000
tickers: [A, B]
`

	config := EmptyConfig()
	suite.Require().NoError(yaml.Unmarshal([]byte(yamlData), &config))

	suite.Equal(25000.0, config.InitialCapital)
	suite.Equal(float64(performance.DefaultPeriodsPerYear), config.PeriodsPerYear)
	suite.Equal(commission_fee.BrokerFlatRate, config.Broker)
	suite.Equal(strategy.StrategyTypeBuyHold, config.Strategy.Type)
	suite.Equal(strategy.DefaultLongWindow, config.Strategy.LongWindow)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestUnmarshalYAMLInvalid() {
	config := EmptyConfig()
	suite.Error(yaml.Unmarshal([]byte("initial_capital: not_a_number"), &config))
}

func (suite *ConfigTestSuite) TestMarshalYAMLOmitsUnsetTimes() {
	config := EmptyConfig()
	config.InitialCapital = 100
	config.Tickers = []string{"A"}

	data, err := yaml.Marshal(config)
	suite.Require().NoError(err)
	suite.NotContains(string(data), "start_time")

	start := time.Date(2020, 1, 2, 9, 30, 0, 0, time.UTC)
	config.StartTime = optional.Some(start)

	data, err = yaml.Marshal(config)
	suite.Require().NoError(err)

	loaded := EmptyConfig()
	suite.Require().NoError(yaml.Unmarshal(data, &loaded))
	suite.True(loaded.StartTime.Unwrap().Equal(start))
	suite.True(loaded.EndTime.IsNone())
	suite.Equal(config.Strategy, loaded.Strategy)
	suite.NoError(loaded.Validate())
}

func (suite *ConfigTestSuite) TestValidate() {
	valid := func() BacktestEngineV1Config {
		config := EmptyConfig()
		config.InitialCapital = 100
		config.Tickers = []string{"600030.SH"}

		return config
	}

	tests := []struct {
		name   string
		mutate func(c *BacktestEngineV1Config)
	}{
		{"no capital", func(c *BacktestEngineV1Config) { c.InitialCapital = 0 }},
		{"no tickers", func(c *BacktestEngineV1Config) { c.Tickers = nil }},
		{"empty ticker", func(c *BacktestEngineV1Config) { c.Tickers = []string{""} }},
		{"negative rate", func(c *BacktestEngineV1Config) { c.TransactionRate = -0.1 }},
		{"rate of one", func(c *BacktestEngineV1Config) { c.TransactionRate = 1 }},
		{"zero periods", func(c *BacktestEngineV1Config) { c.PeriodsPerYear = 0 }},
		{"unknown broker", func(c *BacktestEngineV1Config) { c.Broker = "interactive_broker" }},
		{"unknown strategy", func(c *BacktestEngineV1Config) { c.Strategy.Type = "pairs" }},
		{"bad log level", func(c *BacktestEngineV1Config) { c.LogLevel = "verbose" }},
		{"end before start", func(c *BacktestEngineV1Config) {
			c.StartTime = optional.Some(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC))
			c.EndTime = optional.Some(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
		}},
	}

	config := valid()
	suite.NoError(config.Validate())

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			config := valid()
			tc.mutate(&config)

			err := config.Validate()
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration), "got %v", err)
		})
	}
}
