// Package dbx provides the small database/sql abstractions shared by the
// repositories: the DBTX handle interface and connection-pool sizing.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PoolConfig bounds the connection pool.
//
// MaxIdle is the number of connections kept warm; zero keeps none, so the
// pool shrinks to nothing between bursts. IdleTimeout closes connections
// that sat unused for longer than that.
type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	IdleTimeout time.Duration
}

// ConfigurePool applies c to db.
func ConfigurePool(db *sql.DB, c PoolConfig) {
	db.SetMaxOpenConns(c.MaxOpen)
	if c.MaxIdle > 0 {
		db.SetMaxIdleConns(c.MaxIdle)
	} else {
		db.SetMaxIdleConns(0)
	}
	db.SetConnMaxIdleTime(c.IdleTimeout)
}

// Open opens a pool for driverName/dsn, sizes it and verifies that the
// database answers within ctx.
func Open(ctx context.Context, driverName, dsn string, c PoolConfig) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	ConfigurePool(db, c)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}
