// Package postgres stores build numbers and project descriptions in a
// PostgreSQL database.
package postgres

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const applicationName = "descpub"

// maxConns limits the pool size. A descpub invocation runs one publisher
// per matrix member run at most, a few connections are sufficient.
const maxConns = 4

// Client implements storage.Storer.
type Client struct {
	db   dbConn
	pool *pgxpool.Pool
}

// Logger receives the database driver log messages.
type Logger interface {
	Debugln(v ...any)
}

// New connects to the database at url.
// If logger is nil, driver messages are discarded.
func New(ctx context.Context, url string, logger Logger) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > maxConns {
		cfg.MaxConns = maxConns
	}

	if _, exists := cfg.ConnConfig.RuntimeParams["application_name"]; !exists {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	if logger != nil {
		cfg.ConnConfig.Logger = &pgxLogger{logger: logger}
		cfg.ConnConfig.LogLevel = pgx.LogLevelInfo
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{db: pool, pool: pool}, nil
}

// Close releases all connections of the pool, it never fails.
func (c *Client) Close() error {
	c.pool.Close()

	return nil
}

// dbConn is implemented by the pool and by transactions, queries run
// either standalone or as part of a transaction.
type dbConn interface {
	BeginFunc(context.Context, func(pgx.Tx) error) error
	QueryRow(context.Context, string, ...any) pgx.Row
	Query(context.Context, string, ...any) (pgx.Rows, error)
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
}
