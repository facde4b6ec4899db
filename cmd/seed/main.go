package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/catalog"
	"bookstore/internal/config"
	"bookstore/internal/ingest"
	"bookstore/internal/platform/bookservice"
	"bookstore/internal/platform/logger"

	"go.uber.org/zap"
)

const batchSize = 500

func main() {
	var (
		count    = flag.Int("count", 120, "Number of books to generate")
		seed     = flag.Int64("seed", 1, "Random seed; the same seed yields the same catalog")
		truncate = flag.Bool("truncate", false, "Remove existing books first")
		fromAPI  = flag.Bool("from-api", false, "Mirror BOOKS_API_URL instead of generating books")
		maxBooks = flag.Int("max", 0, "With -from-api, stop after this many books (0 = all)")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.New(logger.Options{Production: cfg.IsProduction()})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := catalog.OpenDB(ctx, cfg.DB.DSN, cfg.DB.Timeout)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	repo := ingest.NewPostgresRepo(pool)
	if *truncate {
		if err := repo.Truncate(ctx); err != nil {
			log.Fatal("truncate failed", zap.Error(err))
		}
	}

	start := time.Now()
	if *fromAPI {
		client := bookservice.NewClient(cfg.Catalog.BaseURL, bookservice.Options{
			Timeout:    cfg.Catalog.Timeout,
			RPS:        cfg.Catalog.RPS,
			MaxRetries: cfg.Catalog.MaxRetries,
		})
		svc := ingest.NewService(client, repo, repo, ingest.Config{PageSize: batchSize, MaxBooks: *maxBooks}, log)
		if _, err := svc.Run(ctx); err != nil {
			log.Fatal("mirror failed", zap.String("url", cfg.Catalog.BaseURL), zap.Error(err))
		}
	} else {
		books := generateBooks(*count, rand.New(rand.NewSource(*seed)))
		log.Info("generated books", zap.Int("count", len(books)), zap.Int64("seed", *seed))
		if err := seedBooks(ctx, repo, books, log); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		log.Fatal("count books", zap.Error(err))
	}
	log.Info("seed complete", zap.Int("total_books", total), zap.Duration("took", time.Since(start)))
}

func seedBooks(ctx context.Context, store ingest.BookStore, books []book.Book, log *zap.Logger) error {
	for from := 0; from < len(books); from += batchSize {
		to := min(from+batchSize, len(books))
		if _, err := store.UpsertBooks(ctx, books[from:to]); err != nil {
			return err
		}
		log.Info("inserted books", zap.Int("done", to), zap.Int("total", len(books)))
	}
	return nil
}
