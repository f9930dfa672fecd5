package datasource

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Loader reads every bar of one symbol from a file.
type Loader interface {
	Load(path string, symbol string) ([]types.MarketData, error)
	Close() error
}

// Source names the file holding a symbol's bars.
type Source struct {
	Symbol string
	Path   string
}

// LoadOptions controls how Load builds a data source.
type LoadOptions struct {
	Instruments []Source
	Benchmarks  []Source
	StartTime   optional.Option[time.Time]
	EndTime     optional.Option[time.Time]
	// Preprocess runs on each instrument's rows after the time filter, for example to add
	// indicator columns.
	Preprocess func(rows []types.MarketData) ([]types.MarketData, error)
}

// Load reads every instrument and benchmark file and returns an aligned in-memory data source.
// CSV files are parsed directly; parquet files go through DuckDB.
func Load(opts LoadOptions, log *logger.Logger) (_ *InMemoryDataSource, err error) {
	if len(opts.Instruments) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoDataPaths, "no instrument data configured")
	}

	loaders := &loaderSet{log: log}
	defer func() {
		err = multierr.Append(err, loaders.Close())
	}()

	rows := make(map[string][]types.MarketData, len(opts.Instruments))
	instruments := make([]string, 0, len(opts.Instruments))

	for _, source := range opts.Instruments {
		loader, err := loaders.For(source.Path)
		if err != nil {
			return nil, err
		}

		data, err := loader.Load(source.Path, source.Symbol)
		if err != nil {
			return nil, err
		}

		data = FilterRange(data, opts.StartTime, opts.EndTime)

		if opts.Preprocess != nil {
			data, err = opts.Preprocess(data)
			if err != nil {
				return nil, err
			}
		}

		log.Info("Loaded instrument", zap.String("symbol", source.Symbol), zap.Int("rows", len(data)))

		rows[source.Symbol] = data
		instruments = append(instruments, source.Symbol)
	}

	ds, err := NewInMemoryDataSource(instruments, rows)
	if err != nil {
		return nil, err
	}

	for _, source := range opts.Benchmarks {
		loader, err := loaders.For(source.Path)
		if err != nil {
			return nil, err
		}

		data, err := loader.Load(source.Path, source.Symbol)
		if err != nil {
			return nil, err
		}

		ds.AddBenchmark(source.Symbol, data)
		log.Info("Loaded benchmark", zap.String("symbol", source.Symbol), zap.Int("rows", len(data)))
	}

	return ds, nil
}

// loaderSet opens at most one loader per file format.
type loaderSet struct {
	log    *logger.Logger
	csv    *CSVLoader
	duckdb *DuckDBLoader
}

func (s *loaderSet) For(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		if s.csv == nil {
			s.csv = NewCSVLoader()
		}

		return s.csv, nil
	case ".parquet":
		if s.duckdb == nil {
			loader, err := NewDuckDBLoader(s.log)
			if err != nil {
				return nil, err
			}

			s.duckdb = loader
		}

		return s.duckdb, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported data file %s", path)
	}
}

func (s *loaderSet) Close() error {
	var err error

	if s.csv != nil {
		err = multierr.Append(err, s.csv.Close())
	}

	if s.duckdb != nil {
		err = multierr.Append(err, s.duckdb.Close())
	}

	return err
}
