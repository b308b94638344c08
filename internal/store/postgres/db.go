// Package postgres implements the domain stores on PostgreSQL through pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/obs"
	"github.com/noah-isme/toko-pos/internal/store/migrations"
)

const uniqueViolation = "23505"

// DB is a pooled PostgreSQL connection with the schema applied.
type DB struct {
	pool *pgxpool.Pool
}

// Open connects to url, applies pending migrations and returns the pool wrapper.
func Open(ctx context.Context, url string, logger zerolog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{Logger: &logger}
	poolConfig.MaxConns = 4

	if err := Migrate(poolConfig.ConnConfig); err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Migrate applies the embedded migrations over a dedicated database/sql handle.
func Migrate(cfg *pgx.ConnConfig) error {
	sqlDB := stdlib.OpenDB(*cfg)
	driver, err := migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("postgres: migration driver: %w", err)
	}
	defer driver.Close()
	return migrations.Up(migrations.DialectPostgres, driver)
}

// Close releases every pooled connection.
func (d *DB) Close() error {
	if d != nil && d.pool != nil {
		d.pool.Close()
	}
	return nil
}

// Ping verifies the server is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// mapError translates pgx errors into the domain sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pgErr.Detail, common.ErrConflict)
	}
	return err
}
