package repository

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Migrate applies the embedded migrations to db
func Migrate(ctx context.Context, db *bun.DB) error {
	provider, err := goose.NewProvider(gooseDialect(db), db.DB, GetMigrationsFS())
	if err != nil {
		return fmt.Errorf("migrations provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func gooseDialect(db *bun.DB) goose.Dialect {
	switch db.Dialect().Name() {
	case dialect.PG:
		return goose.DialectPostgres
	default:
		return goose.DialectSQLite3
	}
}
