package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookstore/internal/catalog"
	"bookstore/internal/config"
	"bookstore/internal/platform/logger"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, reset, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.New(logger.Options{Production: cfg.IsProduction()})
	defer func() { _ = log.Sync() }()

	dir := cfg.DB.MigrationsDir

	if *command == "create" {
		if *name == "" {
			log.Fatal("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		log.Info("migration created", zap.String("name", *name), zap.String("dir", dir))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := catalog.OpenDB(ctx, cfg.DB.DSN, cfg.DB.Timeout)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrate(ctx, db, dir, *command, log); err != nil {
		log.Fatal("migration failed", zap.String("command", *command), zap.Error(err))
	}
}

func migrate(ctx context.Context, db *sql.DB, dir, command string, log *zap.Logger) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return fmt.Errorf("open migrations in %s: %w", dir, err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		logResults(log, results)
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Int("count", len(results)))
	case "down":
		result, err := provider.Down(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			log.Info("nothing to roll back")
			return nil
		}
		if err != nil {
			return err
		}
		logResults(log, []*goose.MigrationResult{result})
	case "reset":
		results, err := provider.DownTo(ctx, 0)
		logResults(log, results)
		if err != nil {
			return err
		}
		log.Info("migrations rolled back", zap.Int("count", len(results)))
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			fields := []zap.Field{
				zap.Int64("version", s.Source.Version),
				zap.String("file", s.Source.Path),
				zap.String("state", string(s.State)),
			}
			if !s.AppliedAt.IsZero() {
				fields = append(fields, zap.Time("applied_at", s.AppliedAt))
			}
			log.Info("migration", fields...)
		}
	case "version":
		v, err := provider.GetDBVersion(ctx)
		if err != nil {
			return err
		}
		log.Info("database version", zap.Int64("version", v))
	default:
		return fmt.Errorf("unknown command %q, use: up, down, reset, status, version, create", command)
	}
	return nil
}

func logResults(log *zap.Logger, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil {
			continue
		}
		log.Info(r.String())
	}
}
