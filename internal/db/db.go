package db

import (
	"context"
	"database/sql"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // Register postgres driver for migrations
)

func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// MustOpenPool returns a verified connection pool or exits.
func MustOpenPool(ctx context.Context, dsn string) *pgxpool.Pool {
	if dsn == "" {
		log.Fatal("DATABASE_DSN not set")
	}

	pool, err := NewPool(ctx, dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	return pool
}

// openDB opens a database/sql connection without pinging. Migrations run
// through this handle; queries use the pgx pool.
func openDB(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}
