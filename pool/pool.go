// Package pool implements the executor boundary over database/sql: pooled
// connections, driver selection, result normalization, and the one-shot
// missing-database recovery for MySQL-family servers.
package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	mysqldrv "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/fluentdb/fluentdb"
)

// mysqlErrBadDB is the server error for a statement against a database
// that does not exist (ER_BAD_DB_ERROR).
const mysqlErrBadDB = 1049

// DB is a pooled connection implementing fluentdb.Executor. It is safe for
// concurrent use.
type DB struct {
	mu  sync.Mutex
	db  *sql.DB
	cfg Config
}

// Open creates a connection pool from the config. The pool is lazy; use
// Ping to verify connectivity.
func Open(cfg Config) (*DB, error) {
	handle, err := openHandle(cfg)
	if err != nil {
		return nil, err
	}
	return &DB{db: handle, cfg: cfg}, nil
}

func openHandle(cfg Config) (*sql.DB, error) {
	name, err := cfg.driverName()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.dsn()
	if err != nil {
		return nil, err
	}
	handle, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", cfg.Driver, err)
	}
	handle.SetMaxOpenConns(cfg.MaxOpenConns)
	handle.SetMaxIdleConns(cfg.MaxIdleConns)
	handle.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return handle, nil
}

// Ping verifies the pool can reach the database.
func (d *DB) Ping(ctx context.Context) error {
	return d.handle().PingContext(ctx)
}

// Close releases the pool.
func (d *DB) Close() error {
	return d.handle().Close()
}

func (d *DB) handle() *sql.DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db
}

// Execute runs one SQL statement and normalizes the outcome. A MySQL
// "unknown database" failure triggers the recovery path once: the database
// is created on a temporary server-level connection, the pool is rebound,
// and the statement retried. Any other failure, and any failure after the
// retry, is wrapped in fluentdb.ExecutionError.
func (d *DB) Execute(ctx context.Context, sqlText string) (*fluentdb.Result, error) {
	res, err := d.executeOnce(ctx, sqlText)
	if err == nil {
		return res, nil
	}
	if !d.isMissingDatabase(err) {
		return nil, fluentdb.ExecutionError{SQL: sqlText, Err: err}
	}
	if rerr := d.recreateDatabase(ctx); rerr != nil {
		return nil, fluentdb.ExecutionError{SQL: sqlText, Err: rerr}
	}
	res, err = d.executeOnce(ctx, sqlText)
	if err != nil {
		return nil, fluentdb.ExecutionError{SQL: sqlText, Err: err}
	}
	return res, nil
}

func (d *DB) isMissingDatabase(err error) bool {
	if d.cfg.Driver != "mysql" || d.cfg.Name == "" {
		return false
	}
	var merr *mysqldrv.MySQLError
	return errors.As(err, &merr) && merr.Number == mysqlErrBadDB
}

// recreateDatabase creates the configured database over a server-level
// connection, then swaps in a fresh pool bound to it.
func (d *DB) recreateDatabase(ctx context.Context) error {
	admin, err := sql.Open("mysql", d.cfg.mysqlDSN(""))
	if err != nil {
		return fmt.Errorf("open admin connection: %w", err)
	}
	defer admin.Close()

	if _, err := admin.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", d.cfg.Name)); err != nil {
		return fmt.Errorf("create database %s: %w", d.cfg.Name, err)
	}

	fresh, err := openHandle(d.cfg)
	if err != nil {
		return err
	}

	d.mu.Lock()
	old := d.db
	d.db = fresh
	d.mu.Unlock()
	_ = old.Close()
	return nil
}

func (d *DB) executeOnce(ctx context.Context, sqlText string) (*fluentdb.Result, error) {
	if isRowsQuery(sqlText) {
		rows, err := d.handle().QueryContext(ctx, sqlText)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanRows(rows)
	}

	res, err := d.handle().ExecContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	out := &fluentdb.Result{}
	// Not every driver reports these; absence is not an error.
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	return out, nil
}

// isRowsQuery decides between QueryContext and ExecContext by the leading
// keyword.
func isRowsQuery(sqlText string) bool {
	head := sqlText
	if i := strings.IndexAny(head, " \t\r\n"); i > 0 {
		head = head[:i]
	}
	switch strings.ToUpper(strings.TrimSpace(head)) {
	case "SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "WITH":
		return true
	default:
		return false
	}
}

func scanRows(rows *sql.Rows) (*fluentdb.Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := &fluentdb.Result{}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, name := range cols {
			if b, ok := cells[i].([]byte); ok {
				row[name] = string(b)
				continue
			}
			row[name] = cells[i]
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out.RowsAffected = int64(len(out.Rows))
	return out, nil
}
