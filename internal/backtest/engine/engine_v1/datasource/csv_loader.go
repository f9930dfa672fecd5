package datasource

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// CSVLoader reads one symbol per CSV file. The header names the columns; one of them must be a
// timestamp (datetime, time or timestamp). Every other numeric column becomes a field.
type CSVLoader struct{}

func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

func (l *CSVLoader) Load(path string, symbol string) ([]types.MarketData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open %s", path)
	}
	defer file.Close()

	records, err := gocsv.CSVToMaps(file)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMalformedData, err, "failed to parse %s", path)
	}

	rows := make([]types.MarketData, 0, len(records))

	for i, record := range records {
		values := make(map[string]any, len(record))
		for column, value := range record {
			values[column] = value
		}

		row, err := parseRecord(symbol, values)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (l *CSVLoader) Close() error {
	return nil
}
