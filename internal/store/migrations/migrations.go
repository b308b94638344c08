// Package migrations embeds the schema for each supported SQL dialect.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Dialects name the embedded migration directories.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Up applies every pending migration for dialect against driver.
// The caller owns driver and closes it.
func Up(dialect string, driver database.Driver) error {
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return fmt.Errorf("migrations: unknown dialect %q", dialect)
	}
	src, err := iofs.New(files, dialect)
	if err != nil {
		return fmt.Errorf("migrations: open source: %w", err)
	}
	defer src.Close()
	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}
