package datasource

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// InMemoryDataSource holds every row in memory, keyed by instrument.
type InMemoryDataSource struct {
	instruments []string
	index       []time.Time
	rows        map[string][]types.MarketData
	benchmarks  []types.PriceSeries
	cursor      int
}

// NewInMemoryDataSource builds a data source from per-instrument rows. Every instrument must
// carry the same timestamps in the same order and the same set of extra fields.
func NewInMemoryDataSource(instruments []string, rows map[string][]types.MarketData) (*InMemoryDataSource, error) {
	if len(instruments) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "at least one instrument is required")
	}

	first, ok := rows[instruments[0]]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInstrumentNotFound, "no data for instrument %s", instruments[0])
	}

	index := make([]time.Time, len(first))
	for i, row := range first {
		index[i] = row.Time
	}

	columns := extraColumns(first)

	for _, instrument := range instruments[1:] {
		data, ok := rows[instrument]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInstrumentNotFound, "no data for instrument %s", instrument)
		}

		if len(data) != len(index) {
			return nil, errors.Newf(errors.ErrCodeMisalignedData,
				"instrument %s has %d rows, expected %d", instrument, len(data), len(index))
		}

		for i, row := range data {
			if !row.Time.Equal(index[i]) {
				return nil, errors.Newf(errors.ErrCodeMisalignedData,
					"instrument %s row %d is at %s, expected %s", instrument, i, row.Time, index[i])
			}
		}

		if !slices.Equal(extraColumns(data), columns) {
			return nil, errors.Newf(errors.ErrCodeMisalignedData,
				"instrument %s has columns %v, expected %v", instrument, extraColumns(data), columns)
		}
	}

	selected := make(map[string][]types.MarketData, len(instruments))
	for _, instrument := range instruments {
		selected[instrument] = rows[instrument]
	}

	return &InMemoryDataSource{
		instruments: slices.Clone(instruments),
		index:       index,
		rows:        selected,
	}, nil
}

// AddBenchmark reindexes the close of bars onto the shared index. Timestamps missing from bars
// become NaN.
func (d *InMemoryDataSource) AddBenchmark(name string, bars []types.MarketData) {
	closes := make(map[int64]float64, len(bars))
	for _, bar := range bars {
		closes[bar.Time.UnixNano()] = bar.Close
	}

	values := make([]float64, len(d.index))
	for i, t := range d.index {
		value, ok := closes[t.UnixNano()]
		if !ok {
			value = math.NaN()
		}

		values[i] = value
	}

	d.benchmarks = append(d.benchmarks, types.PriceSeries{
		Name:   name,
		Times:  slices.Clone(d.index),
		Values: values,
	})
}

func (d *InMemoryDataSource) CurrentTime() time.Time {
	if d.Done() {
		return time.Time{}
	}

	return d.index[d.cursor]
}

func (d *InMemoryDataSource) Value(instrument string, field string) (float64, error) {
	data, ok := d.rows[instrument]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInstrumentNotFound, "unknown instrument %s", instrument)
	}

	if d.Done() {
		return 0, errors.Newf(errors.ErrCodeDataNotFound, "cursor %d is past the last row", d.cursor)
	}

	value, ok := data[d.cursor].Field(field)
	if !ok {
		return 0, errors.Newf(errors.ErrCodeFieldNotFound, "field %s not found for instrument %s", field, instrument)
	}

	return value, nil
}

func (d *InMemoryDataSource) Advance() {
	if d.cursor < len(d.index) {
		d.cursor++
	}
}

func (d *InMemoryDataSource) Cursor() int {
	return d.cursor
}

func (d *InMemoryDataSource) Len() int {
	return len(d.index)
}

func (d *InMemoryDataSource) Done() bool {
	return d.cursor >= len(d.index)
}

func (d *InMemoryDataSource) Instruments() []string {
	return slices.Clone(d.instruments)
}

func (d *InMemoryDataSource) Index() []time.Time {
	return slices.Clone(d.index)
}

func (d *InMemoryDataSource) Benchmarks() []types.PriceSeries {
	return slices.Clone(d.benchmarks)
}

func (d *InMemoryDataSource) Reset() {
	d.cursor = 0
}

func extraColumns(rows []types.MarketData) []string {
	if len(rows) == 0 {
		return nil
	}

	return slices.Sorted(maps.Keys(rows[0].Extra))
}
