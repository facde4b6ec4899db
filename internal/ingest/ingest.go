// Package ingest mirrors a paginated catalog endpoint into the books table.
package ingest

import (
	"time"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Run records one mirror pass.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	Status        string     `json:"status"`
	PageSize      int        `json:"page_size"`
	MaxBooks      int        `json:"max_books"`
	PagesFetched  int        `json:"pages_fetched"`
	BooksFetched  int        `json:"books_fetched"`
	BooksUpserted int        `json:"books_upserted"`
	BooksSkipped  int        `json:"books_skipped"`
	Error         string     `json:"error,omitempty"`
}
