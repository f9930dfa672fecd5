package engine

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/performance"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

type BacktestEngineV1Config struct {
	InitialCapital  float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting cash of the portfolio,minimum=0" validate:"gt=0"`
	Broker          commission_fee.Broker      `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The broker to use for commission calculations" validate:"omitempty,oneof=flat_rate zero_commission"`
	TransactionRate float64                    `yaml:"transaction_rate" json:"transaction_rate" jsonschema:"title=Transaction Rate,description=Fraction of traded notional charged on entries,minimum=0,maximum=1" validate:"gte=0,lt=1"`
	Tickers         []string                   `yaml:"tickers" json:"tickers" jsonschema:"title=Tickers,description=Instruments traded by the strategy" validate:"required,min=1,dive,required"`
	Benchmarks      []string                   `yaml:"benchmarks" json:"benchmarks" jsonschema:"title=Benchmarks,description=Instruments whose close prices are compared against the strategy" validate:"dive,required"`
	DataDir         string                     `yaml:"data_dir" json:"data_dir" jsonschema:"title=Data Directory,description=Directory holding one <ticker>.csv file per instrument"`
	DataPaths       map[string]string          `yaml:"data_paths" json:"data_paths" jsonschema:"title=Data Paths,description=Explicit data file per ticker. Overrides data_dir"`
	ResultsFolder   string                     `yaml:"results_folder" json:"results_folder" jsonschema:"title=Results Folder,description=Output directory for stats and parquet files"`
	PeriodsPerYear  float64                    `yaml:"periods_per_year" json:"periods_per_year" jsonschema:"title=Periods Per Year,description=Bars per year used to annualize statistics,default=12000" validate:"gt=0"`
	RiskFree        float64                    `yaml:"risk_free" json:"risk_free" jsonschema:"title=Risk Free Rate,description=Annual risk free rate used by the Sharpe ratio"`
	LogLevel        string                     `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error" validate:"omitempty,oneof=debug info warn error"`
	Strategy        strategy.Config            `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=The built-in strategy to simulate"`
	StartTime       optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime         optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// configYAML is the on-disk form of BacktestEngineV1Config. Optional times are pointers.
type configYAML struct {
	InitialCapital  float64               `yaml:"initial_capital"`
	Broker          commission_fee.Broker `yaml:"broker"`
	TransactionRate float64               `yaml:"transaction_rate"`
	Tickers         []string              `yaml:"tickers"`
	Benchmarks      []string              `yaml:"benchmarks,omitempty"`
	DataDir         string                `yaml:"data_dir"`
	DataPaths       map[string]string     `yaml:"data_paths,omitempty"`
	ResultsFolder   string                `yaml:"results_folder"`
	PeriodsPerYear  float64               `yaml:"periods_per_year"`
	RiskFree        float64               `yaml:"risk_free"`
	LogLevel        string                `yaml:"log_level"`
	Strategy        strategy.Config       `yaml:"strategy"`
	StartTime       *time.Time            `yaml:"start_time,omitempty"`
	EndTime         *time.Time            `yaml:"end_time,omitempty"`
}

// MarshalYAML writes unset time bounds as absent keys.
func (c BacktestEngineV1Config) MarshalYAML() (interface{}, error) {
	config := configYAML{
		InitialCapital:  c.InitialCapital,
		Broker:          c.Broker,
		TransactionRate: c.TransactionRate,
		Tickers:         c.Tickers,
		Benchmarks:      c.Benchmarks,
		DataDir:         c.DataDir,
		DataPaths:       c.DataPaths,
		ResultsFolder:   c.ResultsFolder,
		PeriodsPerYear:  c.PeriodsPerYear,
		RiskFree:        c.RiskFree,
		LogLevel:        c.LogLevel,
		Strategy:        c.Strategy,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		config.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		config.EndTime = &end
	}

	return config, nil
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Fields missing from the document keep their current values.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	config := configYAML{
		InitialCapital:  c.InitialCapital,
		Broker:          c.Broker,
		TransactionRate: c.TransactionRate,
		Tickers:         c.Tickers,
		Benchmarks:      c.Benchmarks,
		DataDir:         c.DataDir,
		DataPaths:       c.DataPaths,
		ResultsFolder:   c.ResultsFolder,
		PeriodsPerYear:  c.PeriodsPerYear,
		RiskFree:        c.RiskFree,
		LogLevel:        c.LogLevel,
		Strategy:        c.Strategy,
	}
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.Broker = config.Broker
	c.TransactionRate = config.TransactionRate
	c.Tickers = config.Tickers
	c.Benchmarks = config.Benchmarks
	c.DataDir = config.DataDir
	c.DataPaths = config.DataPaths
	c.ResultsFolder = config.ResultsFolder
	c.PeriodsPerYear = config.PeriodsPerYear
	c.RiskFree = config.RiskFree
	c.LogLevel = config.LogLevel
	c.Strategy = config.Strategy

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the struct tags and the time range.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "end time %s is before start time %s",
			c.EndTime.Unwrap().Format(time.RFC3339), c.StartTime.Unwrap().Format(time.RFC3339))
	}

	return nil
}

// DataPath returns the data file of ticker. Explicit data_paths entries win over
// <data_dir>/<ticker>.csv.
func (c *BacktestEngineV1Config) DataPath(ticker string) string {
	if path, ok := c.DataPaths[ticker]; ok && path != "" {
		return path
	}

	return filepath.Join(c.DataDir, ticker+".csv")
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			if strings.Contains(t.String(), "strategy.StrategyType") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: strategy.AllStrategyTypes,
				}
			}

			if strings.Contains(t.String(), "indicator.MAType") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{indicator.MATypeSimple, indicator.MATypeExponential},
				}
			}

			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func TestConfig(startTime time.Time, endTime time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	config := EmptyConfig()
	config.InitialCapital = 10000
	config.Broker = broker
	config.Tickers = []string{"600030.SH"}
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)

	return config
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:  0,
		Broker:          commission_fee.BrokerFlatRate,
		TransactionRate: 0,
		DataDir:         "data",
		ResultsFolder:   "results",
		PeriodsPerYear:  performance.DefaultPeriodsPerYear,
		LogLevel:        "info",
		Strategy: strategy.Config{
			Type:        strategy.StrategyTypeBuyHold,
			ShortWindow: strategy.DefaultShortWindow,
			LongWindow:  strategy.DefaultLongWindow,
			MAType:      indicator.MATypeSimple,
		},
		StartTime: optional.None[time.Time](),
		EndTime:   optional.None[time.Time](),
	}
}
