// Package writer persists analysis results: parquet tables exported through an in-memory DuckDB
// and the YAML run report.
package writer

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// tableWriter owns one in-memory DuckDB table that is exported to a parquet file.
type tableWriter struct {
	db         *sql.DB
	outputPath string
	table      string
	schema     string
	orderBy    string
	mu         sync.Mutex
}

func newTableWriter(outputPath, table, schema, orderBy string) *tableWriter {
	return &tableWriter{
		db:         nil,
		outputPath: outputPath,
		table:      table,
		schema:     schema,
		orderBy:    orderBy,
		mu:         sync.Mutex{},
	}
}

// Initialize creates the output directory and the table.
func (w *tableWriter) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create output directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to open DuckDB connection", err)
	}

	w.db = db

	_, err = w.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s)`, w.table, w.schema))
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to create %s table", w.table)
	}

	return nil
}

// insert runs one insert statement per row inside a transaction, then exports the table.
func (w *tableWriter) insert(columns []string, rows [][]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeReportWriteFailed, "writer not initialized")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, w.table, strings.Join(columns, ", "), placeholders)

	tx, err := w.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to begin transaction", err)
	}

	for _, row := range rows {
		if _, err := tx.Exec(statement, row...); err != nil {
			_ = tx.Rollback()

			return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to insert into %s", w.table)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to commit transaction", err)
	}

	return w.exportToParquet()
}

// Flush forces an export to parquet.
func (w *tableWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeReportWriteFailed, "writer not initialized")
	}

	return w.exportToParquet()
}

// GetOutputPath returns the parquet file path.
func (w *tableWriter) GetOutputPath() string {
	return w.outputPath
}

// Count returns the number of rows written so far.
func (w *tableWriter) Count() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return 0, errors.New(errors.ErrCodeReportWriteFailed, "writer not initialized")
	}

	var count int
	if err := w.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", w.table)).Scan(&count); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to count %s", w.table)
	}

	return count, nil
}

// Close releases database resources.
func (w *tableWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to close database", err)
		}

		w.db = nil
	}

	return nil
}

//nolint:funcorder // helper method used by insert and Flush
func (w *tableWriter) exportToParquet() error {
	query := fmt.Sprintf("SELECT * FROM %s", w.table)
	if w.orderBy != "" {
		query += " ORDER BY " + w.orderBy
	}

	_, err := w.db.Exec(fmt.Sprintf(`COPY (%s) TO '%s' (FORMAT PARQUET)`,
		query, strings.ReplaceAll(w.outputPath, "'", "''")))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to export %s to parquet", w.table)
	}

	return nil
}

// nullable stores NaN as NULL. Infinities are kept as IEEE doubles, so NULL always means
// undefined and never unbounded.
func nullable(f float64) sql.NullFloat64 {
	if math.IsNaN(f) {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: f, Valid: true}
}

// FileName turns a signal or combination label into a safe file name stem.
func FileName(label string) string {
	var b strings.Builder

	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == '%':
			b.WriteString("pct")
		default:
			b.WriteRune('_')
		}
	}

	return b.String()
}
