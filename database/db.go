package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"tripplanner/database/migrations"
)

// ErrNotFound is returned when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("not found")

const (
	pingAttempts = 10
	pingInterval = 2 * time.Second
)

// ─── Init ─────────────────────────────────────────────────────────────────────

// Open connects to Postgres and waits for it to answer, retrying while the database starts up.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("database.Open: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return db, nil
		}
		slog.Warn("waiting for database", "attempt", i+1, "of", pingAttempts, "error", err)

		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("database.Open: %w", ctx.Err())
		case <-time.After(pingInterval):
		}
	}

	db.Close()
	return nil, fmt.Errorf("database.Open: no answer after %d attempts: %w", pingAttempts, err)
}

// ─── Migrations ───────────────────────────────────────────────────────────────

// Migrate applies every pending migration embedded in the binary.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db.DB, migrations.FS)
	if err != nil {
		return fmt.Errorf("database.Migrate: create provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("database.Migrate: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
