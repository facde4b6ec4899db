package ingest

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/book"

	"go.uber.org/zap"
)

type Config struct {
	PageSize int
	// MaxBooks caps the books mirrored in one run; 0 mirrors everything.
	MaxBooks int
}

// PageFetcher is the part of book.Source a mirror run needs.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, limit int) (book.Page, error)
}

type BookStore interface {
	UpsertBooks(ctx context.Context, books []book.Book) (int, error)
}

type Repository interface {
	CreateRun(ctx context.Context, run *Run) (string, error)
	UpdateRun(ctx context.Context, run *Run) error
}

type Service struct {
	fetcher PageFetcher
	store   BookStore
	runs    Repository
	cfg     Config
	log     *zap.Logger
	now     func() time.Time
}

func NewService(fetcher PageFetcher, store BookStore, runs Repository, cfg Config, log *zap.Logger) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		runs:    runs,
		cfg:     cfg,
		log:     log.Named("ingest"),
		now:     time.Now,
	}
}

// Run walks the endpoint page by page and upserts every book with an id.
// The run record is finalized even when a page fails.
func (s *Service) Run(ctx context.Context) (run *Run, err error) {
	run = &Run{
		Status:    StatusRunning,
		PageSize:  s.cfg.PageSize,
		MaxBooks:  s.cfg.MaxBooks,
		StartedAt: s.now(),
	}
	runID, err := s.runs.CreateRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("create ingest run: %w", err)
	}
	run.ID = runID

	defer func() {
		now := s.now()
		run.FinishedAt = &now
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}
		if run.Error != "" {
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		if updateErr := s.runs.UpdateRun(ctx, run); updateErr != nil {
			s.log.Error("failed to update ingest run", zap.String("run_id", run.ID), zap.Error(updateErr))
		}
		s.log.Info("ingest run finished",
			zap.String("run_id", run.ID),
			zap.String("status", run.Status),
			zap.Int("pages", run.PagesFetched),
			zap.Int("fetched", run.BooksFetched),
			zap.Int("upserted", run.BooksUpserted),
			zap.Int("skipped", run.BooksSkipped),
		)
	}()

	for page := 1; ; page++ {
		p, err := s.fetcher.FetchPage(ctx, page, s.cfg.PageSize)
		if err != nil {
			run.Error = fmt.Sprintf("fetch page %d: %v", page, err)
			return run, err
		}
		run.PagesFetched++
		run.BooksFetched += len(p.Books)

		batch := make([]book.Book, 0, len(p.Books))
		for _, b := range p.Books {
			if b.ID == "" {
				run.BooksSkipped++
				continue
			}
			batch = append(batch, b)
		}

		capped := false
		if s.cfg.MaxBooks > 0 {
			if left := s.cfg.MaxBooks - run.BooksUpserted; len(batch) >= left {
				batch = batch[:left]
				capped = true
			}
		}

		if len(batch) > 0 {
			n, err := s.store.UpsertBooks(ctx, batch)
			run.BooksUpserted += n
			if err != nil {
				run.Error = fmt.Sprintf("upsert page %d: %v", page, err)
				return run, err
			}
		}

		if capped || len(p.Books) == 0 || page >= p.TotalPages {
			return run, nil
		}
	}
}
