package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"coffee-backend/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the slice of *pgxpool.Pool the repositories use. Every call
// acquires a pooled connection and releases it before returning (or, for
// Query, when the rows are closed).
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// DSN builds the connection string from config.
func DSN(cfg *config.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Database.User, cfg.Database.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port),
		Path:   "/" + cfg.Database.Name,
	}
	if cfg.Database.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(cfg.Database.SSLMode)
	}
	return u.String()
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	}
	if cfg.Database.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.Database.MinConns)
	}
	poolCfg.MaxConnLifetime = 1 * time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s:%d/%s: %w", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name, err)
	}

	log.Printf("[DB] Connected to %s:%d/%s (max_conns=%d)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name, poolCfg.MaxConns)
	return pool, nil
}
