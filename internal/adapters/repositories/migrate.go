package repositories

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"logistics-sim/internal/platform/db"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies all pending schema migrations for the given driver.
func Migrate(ctx context.Context, conn *sql.DB, driver string) error {
	if conn == nil {
		return errors.New("migrate: DB is nil")
	}

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(db.GooseDialect(driver)); err != nil {
		return fmt.Errorf("migrate: set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, conn, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
