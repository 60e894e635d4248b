package datasource

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
)

const viewName = "prices"

// accepted spellings of the date column, matched case-insensitively
var timeColumnNames = []string{"time", "date", "timestamp", "datetime"}

var ohlcvColumns = []string{"open", "high", "low", "close", "volume"}

// columns never reported as extra columns
var reservedColumns = []string{"symbol", "ticker", "adj close", "adj_close"}

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType

	// actual column names keyed by their lower-case spelling
	columns map[string]string
	// column types keyed by actual name
	columnTypes map[string]string
	// actual names in file order
	order []string
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// Use ":memory:" for an in-memory database. Prices are loaded separately by Initialize.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	reader, err := readerFor(path)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(fmt.Sprintf(`DROP VIEW IF EXISTS %s;`, viewName))
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// squirrel does not build CREATE VIEW statements
	query := fmt.Sprintf(`CREATE VIEW %s AS SELECT * FROM %s('%s');`,
		viewName, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err = d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to load prices from %s", path)
	}

	if err := d.describe(); err != nil {
		return err
	}

	for _, required := range []string{"open", "high", "low", "close"} {
		if _, ok := d.columns[required]; !ok {
			return errors.Newf(errors.ErrCodeColumnNotFound, "price file %s has no %s column", path, required)
		}
	}

	if _, err := d.timeColumn(); err != nil {
		return err
	}

	d.logger.Info("Loaded price file",
		zap.String("path", path),
		zap.Int("columns", len(d.order)),
	)

	return nil
}

func readerFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "read_parquet", nil
	case ".csv":
		return "read_csv_auto", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported price file format %q, expected .parquet or .csv", filepath.Ext(path))
	}
}

func (d *DuckDBDataSource) describe() error {
	rows, err := d.db.Query(fmt.Sprintf("DESCRIBE %s", viewName))
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe prices", err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe prices", err)
	}

	d.columns = make(map[string]string)
	d.columnTypes = make(map[string]string)
	d.order = nil

	for rows.Next() {
		values := make([]any, len(columnNames))
		ptrs := make([]any, len(columnNames))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column description", err)
		}

		// DESCRIBE returns column_name and column_type first
		name := fmt.Sprint(values[0])
		columnType := fmt.Sprint(values[1])

		d.columns[strings.ToLower(name)] = name
		d.columnTypes[name] = strings.ToUpper(columnType)
		d.order = append(d.order, name)
	}

	return rows.Err()
}

func (d *DuckDBDataSource) timeColumn() (string, error) {
	for _, candidate := range timeColumnNames {
		if name, ok := d.columns[candidate]; ok {
			return name, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeColumnNotFound, "price file has no date column, expected one of %v", timeColumnNames)
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// barColumns returns the select list of a bar row. A missing volume reads as 0.
func (d *DuckDBDataSource) barColumns() ([]string, string, error) {
	timeColumn, err := d.timeColumn()
	if err != nil {
		return nil, "", err
	}

	columns := []string{fmt.Sprintf("CAST(%s AS TIMESTAMP) AS time", quote(timeColumn))}

	for _, name := range ohlcvColumns {
		actual, ok := d.columns[name]
		if !ok {
			columns = append(columns, fmt.Sprintf("CAST(0 AS DOUBLE) AS %s", name))

			continue
		}

		columns = append(columns, fmt.Sprintf("CAST(%s AS DOUBLE) AS %s", quote(actual), name))
	}

	return columns, quote(timeColumn), nil
}

func (d *DuckDBDataSource) window(builder squirrel.SelectBuilder, timeColumn string, start, end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{timeColumn: start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{timeColumn: end.Unwrap()})
	}

	return builder
}

func (d *DuckDBDataSource) queryBars(start, end optional.Option[time.Time]) ([]types.PriceBar, error) {
	if d.columns == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized")
	}

	columns, timeColumn, err := d.barColumns()
	if err != nil {
		return nil, err
	}

	query, args, err := d.window(d.sq.Select(columns...).From(viewName), timeColumn, start, end).
		OrderBy(timeColumn + " ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query prices", err)
	}
	defer rows.Close()

	bars := make([]types.PriceBar, 0, 1024)

	for rows.Next() {
		var (
			timestamp                      time.Time
			open, high, low, close, volume sql.NullFloat64
		)

		if err := rows.Scan(&timestamp, &open, &high, &low, &close, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		bars = append(bars, types.PriceBar{
			Time:   timestamp,
			Open:   nullToNaN(open),
			High:   nullToNaN(high),
			Low:    nullToNaN(low),
			Close:  nullToNaN(close),
			Volume: volume.Float64,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return bars, nil
}

func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.PriceBar, error) bool) {
	return func(yield func(types.PriceBar, error) bool) {
		d.logger.Debug("Reading all bars from DuckDB")

		bars, err := d.queryBars(start, end)
		if err != nil {
			yield(types.PriceBar{}, err)

			return
		}

		for _, bar := range bars {
			if !yield(bar, nil) {
				return
			}
		}
	}
}

// ExtraColumns implements DataSource.
func (d *DuckDBDataSource) ExtraColumns() ([]string, error) {
	if d.columns == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized")
	}

	var extra []string

	for _, name := range d.order {
		lower := strings.ToLower(name)
		if slices.Contains(timeColumnNames, lower) || slices.Contains(ohlcvColumns, lower) || slices.Contains(reservedColumns, lower) {
			continue
		}

		if !isNumeric(d.columnTypes[name]) {
			continue
		}

		extra = append(extra, name)
	}

	return extra, nil
}

func isNumeric(columnType string) bool {
	for _, prefix := range []string{"DOUBLE", "FLOAT", "REAL", "DECIMAL", "NUMERIC", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "HUGEINT", "UBIGINT", "UINTEGER", "USMALLINT", "UTINYINT"} {
		if strings.HasPrefix(columnType, prefix) {
			return true
		}
	}

	return false
}

// ReadColumn implements DataSource.
func (d *DuckDBDataSource) ReadColumn(name string, start optional.Option[time.Time], end optional.Option[time.Time]) ([]float64, error) {
	if d.columns == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized")
	}

	if _, ok := d.columnTypes[name]; !ok {
		return nil, errors.Newf(errors.ErrCodeColumnNotFound, "column %s not found", name)
	}

	timeColumn, err := d.timeColumn()
	if err != nil {
		return nil, err
	}

	query, args, err := d.window(
		d.sq.Select(fmt.Sprintf("CAST(%s AS DOUBLE)", quote(name))).From(viewName),
		quote(timeColumn), start, end,
	).OrderBy(quote(timeColumn) + " ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read column %s", name)
	}
	defer rows.Close()

	var values []float64

	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		values = append(values, nullToNaN(v))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return values, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	if d.columns == nil {
		return 0, errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized")
	}

	timeColumn, err := d.timeColumn()
	if err != nil {
		return 0, err
	}

	query, args, err := d.window(d.sq.Select("COUNT(*)").From(viewName), quote(timeColumn), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count rows", err)
	}

	return count, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}
