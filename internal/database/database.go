package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	appconfig "github.com/fabrikasoft/fabrika-api/internal/config"
)

const (
	maxAttempts = 5
	baseDelay   = 500 * time.Millisecond
)

// Connect establishes a PostgreSQL connection using the provided configuration.
// Transient bootstrapping failures (e.g. the DB container still starting) are
// retried with exponential backoff. The returned *sqlx.DB has pool settings
// applied and has been pinged.
func Connect(cfg *appconfig.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := sqlx.Open("postgres", dsn)
		if err != nil {
			lastErr = err
			sleepBackoff(attempt)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			return db, nil
		}
		_ = db.Close()
		sleepBackoff(attempt)
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxAttempts, lastErr)
}

// sleepBackoff sleeps base*2^(attempt-1), capped at 5s.
func sleepBackoff(attempt int) {
	d := baseDelay << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	time.Sleep(d)
}
