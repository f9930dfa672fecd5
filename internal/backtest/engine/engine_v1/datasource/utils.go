package datasource

import (
	"math"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/spf13/cast"
)

// columns that may hold the row timestamp, in lookup order.
var timeColumns = []string{"datetime", "time", "timestamp"}

var standardFields = map[string]bool{
	types.FieldOpen:        true,
	types.FieldHigh:        true,
	types.FieldLow:         true,
	types.FieldClose:       true,
	types.FieldVolume:      true,
	types.FieldTransaction: true,
}

// columns carried by data files that are not numeric.
var textColumns = map[string]bool{
	"date":   true,
	"symbol": true,
}

// parseRecord converts one column -> value record into MarketData. Values may be strings (CSV)
// or driver values (DuckDB). Empty cells become NaN. Standard columns match case-insensitively;
// any other column keeps its name as an extra field.
func parseRecord(symbol string, record map[string]any) (types.MarketData, error) {
	row := types.MarketData{Symbol: symbol}

	lowered := make(map[string]string, len(record))
	for column := range record {
		lowered[strings.ToLower(strings.TrimSpace(column))] = column
	}

	timeColumn := ""

	for _, name := range timeColumns {
		column, ok := lowered[name]
		if !ok {
			continue
		}

		t, err := cast.ToTimeE(record[column])
		if err != nil {
			return types.MarketData{}, errors.Wrapf(errors.ErrCodeMalformedData, err, "invalid %s value %v", column, record[column])
		}

		row.Time = t
		timeColumn = column

		break
	}

	if timeColumn == "" {
		return types.MarketData{}, errors.Newf(errors.ErrCodeMalformedData,
			"missing time column, expected one of %s", strings.Join(timeColumns, ", "))
	}

	for column, value := range record {
		name := strings.TrimSpace(column)
		lower := strings.ToLower(name)

		if name == "" || column == timeColumn || textColumns[lower] {
			continue
		}

		if standardFields[lower] {
			name = lower
		}

		number, err := parseNumber(value)
		if err != nil {
			return types.MarketData{}, errors.Wrapf(errors.ErrCodeMalformedData, err, "invalid %s value %v", column, value)
		}

		row.SetField(name, number)
	}

	return row, nil
}

func parseNumber(value any) (float64, error) {
	if value == nil {
		return math.NaN(), nil
	}

	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return math.NaN(), nil
	}

	return cast.ToFloat64E(value)
}

// FilterRange keeps rows whose time falls within [start, end]. Unset bounds are open.
func FilterRange(rows []types.MarketData, start optional.Option[time.Time], end optional.Option[time.Time]) []types.MarketData {
	if start.IsNone() && end.IsNone() {
		return rows
	}

	filtered := make([]types.MarketData, 0, len(rows))

	for _, row := range rows {
		if start.IsSome() && row.Time.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && row.Time.After(end.Unwrap()) {
			continue
		}

		filtered = append(filtered, row)
	}

	return filtered
}
