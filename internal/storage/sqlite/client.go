package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"

	"github.com/supernova/supernova/config"
	"github.com/supernova/supernova/internal/core/value"
)

// Client is the single execution path to the store. Everything above it
// (catalog, table engine, object store) issues parameterized statements
// through Exec and Query; no other code touches the connection.
type Client struct {
	DB   *sql.DB
	path string
}

func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection, one statement at a time. The design assumes a
	// single-user workload; concurrent callers serialize here.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c := &Client{DB: db, path: cfg.Path}
	if err := c.createMetadataTables(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

// Exec runs a parameterized statement. Arguments may be plain Go scalars or
// value.Value; a failed statement is reported once and never retried.
func (c *Client) Exec(ctx context.Context, query string, args ...any) error {
	_, err := c.DB.ExecContext(ctx, query, driverArgs(args)...)
	return err
}

// Query runs a parameterized query and returns every row as a column-name to
// store-value mapping.
func (c *Client) Query(ctx context.Context, query string, args ...any) ([]value.Row, error) {
	rows, err := c.DB.QueryContext(ctx, query, driverArgs(args)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// WithTx runs fn inside a transaction. SQLite applies DDL transactionally,
// so metadata and physical-schema mutations that must land together are
// wrapped here.
func (c *Client) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Path returns the backing file. The store is always a single addressable
// file so collaborators can copy it verbatim.
func (c *Client) Path() string {
	return c.path
}

// ExportTo copies the backing file to dst.
func (c *Client) ExportTo(dst string) error {
	src, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("failed to open backing file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to export database: %w", err)
	}
	return out.Sync()
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func driverArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if v, ok := a.(value.Value); ok {
			out[i] = v.Any()
		} else {
			out[i] = a
		}
	}
	return out
}

func scanRows(rows *sql.Rows) ([]value.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []value.Row
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(value.Row, len(cols))
		for i, col := range cols {
			row[col] = value.FromAny(raw[i])
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
