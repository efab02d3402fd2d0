// Package dbexec runs acknowledged database actions against the SQLite
// project database.
package dbexec

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"nathanbeddoewebdev/actionrunner/internal/database"
	"nathanbeddoewebdev/actionrunner/internal/retry"
)

// Result is the outcome of one statement. Columns and Rows are set for
// statements that return rows; RowsAffected for everything else.
type Result struct {
	Columns      []string
	Rows         [][]string
	RowsAffected int64
}

// Executor runs SQL text against a database.
type Executor struct {
	db     *sql.DB
	logger *slog.Logger
	retry  retry.Config
}

// New wraps an open database.
func New(db *sql.DB, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "dbexec")

	cfg := retry.DefaultConfig()
	cfg.Logger = logger
	return &Executor{db: db, logger: logger, retry: cfg}
}

// Open opens the database at path (or the default path when empty).
func Open(path string, logger *slog.Logger) (*Executor, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	return New(db, logger), nil
}

// Close closes the underlying database.
func (e *Executor) Close() error {
	return e.db.Close()
}

// DB returns the underlying database handle.
func (e *Executor) DB() *sql.DB { return e.db }

// Exec runs query. Statements that read (SELECT, WITH, PRAGMA, EXPLAIN,
// VALUES) return their rows; everything else reports rows affected. Busy
// database errors are retried.
func (e *Executor) Exec(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("dbexec: empty query")
	}

	var res *Result
	err := retry.Do(ctx, e.retry, retry.IsBusy, func() error {
		var err error
		if returnsRows(query) {
			res, err = e.query(ctx, query)
		} else {
			res, err = e.exec(ctx, query)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("dbexec: %w", err)
	}

	e.logger.Debug("query executed", "rows", len(res.Rows), "rows_affected", res.RowsAffected)
	return res, nil
}

func (e *Executor) exec(ctx context.Context, query string) (*Result, error) {
	r, err := e.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	n, err := r.RowsAffected()
	if err != nil {
		n = 0
	}
	return &Result{RowsAffected: n}, nil
}

func (e *Executor) query(ctx context.Context, query string) (*Result, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, rows.Err()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// returnsRows reports whether the first statement in query reads rows.
func returnsRows(query string) bool {
	switch firstKeyword(query) {
	case "SELECT", "WITH", "PRAGMA", "EXPLAIN", "VALUES":
		return true
	}
	return false
}

// firstKeyword returns the first word of query, skipping leading comments.
func firstKeyword(query string) string {
	s := query
	for {
		s = strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			s = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s, "*/")
			if i < 0 {
				return ""
			}
			s = s[i+2:]
		default:
			end := strings.IndexFunc(s, func(r rune) bool {
				return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
			})
			if end < 0 {
				end = len(s)
			}
			return strings.ToUpper(s[:end])
		}
	}
}
