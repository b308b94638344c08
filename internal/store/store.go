// Package store selects the relational backend from the configured database URL.
package store

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pos/internal/catalog"
	"github.com/noah-isme/toko-pos/internal/events"
	"github.com/noah-isme/toko-pos/internal/leave"
	"github.com/noah-isme/toko-pos/internal/parking"
	"github.com/noah-isme/toko-pos/internal/store/postgres"
	"github.com/noah-isme/toko-pos/internal/store/sqlite"
)

// Backend is implemented by every relational store.
type Backend interface {
	catalog.Store
	leave.Store
	parking.Store
	events.Store
	Ping(ctx context.Context) error
	Close() error
}

// Handle is an open backend. Release it with Close on every exit path.
type Handle struct {
	Backend
	Driver string
}

// IsPostgres reports whether url addresses a PostgreSQL server.
func IsPostgres(url string) bool {
	u := strings.ToLower(strings.TrimSpace(url))
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// Open connects to the backend named by url and applies migrations.
// Anything that is not a postgres URL is treated as a SQLite file path.
func Open(ctx context.Context, url string, logger zerolog.Logger) (*Handle, error) {
	if IsPostgres(url) {
		db, err := postgres.Open(ctx, url, logger)
		if err != nil {
			return nil, err
		}
		return &Handle{Backend: db, Driver: "postgres"}, nil
	}
	db, err := sqlite.Open(ctx, strings.TrimPrefix(strings.TrimSpace(url), "sqlite://"))
	if err != nil {
		return nil, err
	}
	return &Handle{Backend: db, Driver: "sqlite"}, nil
}
