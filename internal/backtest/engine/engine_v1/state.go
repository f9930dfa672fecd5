package engine

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

const (
	snapshotsFileName = "snapshots.parquet"
	fillsFileName     = "fills.parquet"
	insertBatchSize   = 500
)

// BacktestState stores the results of a run in an in-memory DuckDB database so they can be
// queried and exported as parquet.
type BacktestState struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewBacktestState(logger *logger.Logger) (*BacktestState, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &BacktestState{
		logger: logger,
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the snapshot and fill tables.
func (b *BacktestState) Initialize() error {
	// one row per instrument per bar; cash and total repeat across the bar's rows
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			time TIMESTAMP,
			instrument TEXT,
			quantity DOUBLE,
			market_price DOUBLE,
			cost_basis DOUBLE,
			avg_cost DOUBLE,
			market_value DOUBLE,
			unrealized_pnl DOUBLE,
			realizable_value DOUBLE,
			cash DOUBLE,
			total DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}

	_, err = b.db.Exec(`
		CREATE TABLE IF NOT EXISTS fills (
			time TIMESTAMP,
			instrument TEXT,
			type TEXT,
			quantity DOUBLE,
			price DOUBLE,
			ratio DOUBLE,
			cash_delta DOUBLE,
			closed BOOLEAN
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create fills table: %w", err)
	}

	return nil
}

// RecordSnapshots inserts the snapshot history.
func (b *BacktestState) RecordSnapshots(history []types.Snapshot) error {
	columns := []string{
		"time", "instrument", "quantity", "market_price", "cost_basis", "avg_cost",
		"market_value", "unrealized_pnl", "realizable_value", "cash", "total",
	}

	var rows [][]any

	for _, snapshot := range history {
		for _, instrument := range snapshot.State.Instruments() {
			p := snapshot.State.Positions[instrument]
			rows = append(rows, []any{
				snapshot.Time, instrument, p.Quantity, p.MarketPrice, p.CostBasis, p.AvgCost,
				p.MarketValue, p.UnrealizedPnL, p.RealizableValue, snapshot.State.Cash, snapshot.State.Total,
			})
		}
	}

	return b.insert("snapshots", columns, rows)
}

// RecordFills inserts the fill log.
func (b *BacktestState) RecordFills(fills []types.Fill) error {
	columns := []string{"time", "instrument", "type", "quantity", "price", "ratio", "cash_delta", "closed"}

	rows := make([][]any, 0, len(fills))
	for _, fill := range fills {
		rows = append(rows, []any{
			fill.Time, fill.Instrument, string(fill.Type), fill.Quantity, fill.Price, fill.Ratio, fill.CashDelta, fill.Closed,
		})
	}

	return b.insert("fills", columns, rows)
}

func (b *BacktestState) insert(table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))

		query := b.sq.Insert(table).Columns(columns...)
		for _, row := range rows[start:end] {
			query = query.Values(row...)
		}

		if _, err := query.RunWith(tx).Exec(); err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to insert into %s", table)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}

	return nil
}

// GetFills reads the fill log back in time order.
func (b *BacktestState) GetFills() ([]types.Fill, error) {
	query, args, err := b.sq.
		Select("time", "instrument", "type", "quantity", "price", "ratio", "cash_delta", "closed").
		From("fills").
		OrderBy("time ASC", "instrument ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fills: %w", err)
	}
	defer rows.Close()

	var fills []types.Fill

	for rows.Next() {
		var fill types.Fill

		var fillType string

		if err := rows.Scan(&fill.Time, &fill.Instrument, &fillType, &fill.Quantity, &fill.Price,
			&fill.Ratio, &fill.CashDelta, &fill.Closed); err != nil {
			return nil, fmt.Errorf("failed to scan fill: %w", err)
		}

		fill.Type = types.SignalType(fillType)
		fills = append(fills, fill)
	}

	return fills, rows.Err()
}

// CountSnapshots returns the number of distinct bars recorded.
func (b *BacktestState) CountSnapshots() (int, error) {
	query, args, err := b.sq.Select("COUNT(DISTINCT time)").From("snapshots").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := b.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}

	return count, nil
}

// Write exports the tables to parquet files inside path.
func (b *BacktestState) Write(path string) error {
	// Squirrel doesn't support COPY
	snapshotsPath := filepath.Join(path, snapshotsFileName)
	if _, err := b.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM snapshots ORDER BY time, instrument) TO '%s' (FORMAT PARQUET)`, snapshotsPath)); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to export snapshots to parquet", err)
	}

	fillsPath := filepath.Join(path, fillsFileName)
	if _, err := b.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM fills ORDER BY time, instrument) TO '%s' (FORMAT PARQUET)`, fillsPath)); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to export fills to parquet", err)
	}

	b.logger.Info("Successfully exported backtest results to Parquet files",
		zap.String("snapshots", snapshotsPath),
		zap.String("fills", fillsPath),
	)

	return nil
}

// Cleanup empties the tables between runs.
func (b *BacktestState) Cleanup() error {
	if _, err := b.db.Exec(`DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clean snapshots: %w", err)
	}

	if _, err := b.db.Exec(`DELETE FROM fills`); err != nil {
		return fmt.Errorf("failed to clean fills: %w", err)
	}

	return nil
}

// Close releases the in-memory database.
func (b *BacktestState) Close() error {
	return b.db.Close()
}
