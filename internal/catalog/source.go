// Package catalog opens the configured book.Source.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/platform/bookservice"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Open returns the catalog backend selected by cfg.Catalog.Source. The
// returned func releases it and is never nil on success.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (book.Source, func(), error) {
	switch cfg.Catalog.Source {
	case config.SourceHTTP:
		client := bookservice.NewClient(cfg.Catalog.BaseURL, bookservice.Options{
			Timeout:    cfg.Catalog.Timeout,
			RPS:        cfg.Catalog.RPS,
			MaxRetries: cfg.Catalog.MaxRetries,
		})
		log.Info("catalog endpoint", zap.String("url", cfg.Catalog.BaseURL))
		return client, func() {}, nil

	case config.SourcePostgres:
		pool, err := OpenDB(ctx, cfg.DB.DSN, cfg.DB.Timeout)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connection OK", zap.String("dsn", RedactDSN(cfg.DB.DSN)))
		return book.NewPostgresSource(pool, cfg.DB.Timeout), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown CATALOG_SOURCE %q (want %q or %q)",
			cfg.Catalog.Source, config.SourceHTTP, config.SourcePostgres)
	}
}

// OpenDB creates a pool and pings it within timeout.
func OpenDB(ctx context.Context, dsn string, timeout time.Duration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(dsn), err)
	}
	return pool, nil
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
