// Package migrate runs goose SQL migrations embedded in the binary.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

func prepare(driver string) error {
	goose.SetBaseFS(migrations)
	dialect := driver
	if driver == "sqlite" {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migrate: dialect %s: %w", driver, err)
	}
	return nil
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	if err := prepare(driver); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate: up: %w", err)
	}
	return nil
}

// Down rolls back the latest migration.
func Down(ctx context.Context, db *sql.DB, driver string) error {
	if err := prepare(driver); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate: down: %w", err)
	}
	return nil
}

// Status prints migration status to stdout.
func Status(ctx context.Context, db *sql.DB, driver string) error {
	if err := prepare(driver); err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, "migrations")
}
