package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBLoader reads bars from parquet or CSV files through an in-memory DuckDB database.
// Files holding several symbols are filtered on their symbol column.
type DuckDBLoader struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewDuckDBLoader(logger *logger.Logger) (*DuckDBLoader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBLoader{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func (l *DuckDBLoader) Load(path string, symbol string) ([]types.MarketData, error) {
	l.logger.Debug("Loading market data through duckdb", zap.String("path", path), zap.String("symbol", symbol))

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		reader = "read_csv_auto"
	}

	_, err := l.db.Exec(`DROP VIEW IF EXISTS market_data;`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// squirrel does not support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM %s('%s');
	`, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := l.db.Exec(query); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", path)
	}

	columns, err := l.columns()
	if err != nil {
		return nil, err
	}

	timeColumn := ""

	for _, name := range timeColumns {
		idx := slices.IndexFunc(columns, func(column string) bool { return strings.EqualFold(column, name) })
		if idx >= 0 {
			timeColumn = columns[idx]

			break
		}
	}

	if timeColumn == "" {
		return nil, errors.Newf(errors.ErrCodeMalformedData, "%s has no time column", path)
	}

	builder := l.sq.Select("*").From("market_data").OrderBy(fmt.Sprintf("%q ASC", timeColumn))

	if idx := slices.IndexFunc(columns, func(column string) bool { return strings.EqualFold(column, "symbol") }); idx >= 0 {
		builder = builder.Where(squirrel.Eq{fmt.Sprintf("%q", columns[idx]): symbol})
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := l.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	var result []types.MarketData

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		record := make(map[string]any, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}

		row, err := parseRecord(symbol, record)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate rows", err)
	}

	l.logger.Debug("Loaded market data", zap.String("symbol", symbol), zap.Int("rows", len(result)))

	return result, nil
}

func (l *DuckDBLoader) columns() ([]string, error) {
	query, args, err := l.sq.Select("*").From("market_data").Limit(0).ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read columns", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read columns", err)
	}

	return columns, nil
}

func (l *DuckDBLoader) Close() error {
	return l.db.Close()
}
