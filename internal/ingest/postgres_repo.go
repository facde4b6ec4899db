package ingest

import (
	"context"
	"fmt"

	"bookstore/internal/book"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const upsertBookSQL = `
	INSERT INTO books (id, title, author, genre, price, in_stock, rating, review_count, thumbnail, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		author = EXCLUDED.author,
		genre = EXCLUDED.genre,
		price = EXCLUDED.price,
		in_stock = EXCLUDED.in_stock,
		rating = EXCLUDED.rating,
		review_count = EXCLUDED.review_count,
		thumbnail = EXCLUDED.thumbnail,
		description = EXCLUDED.description,
		updated_at = NOW()`

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// UpsertBooks writes books in one transaction. New rows are appended in
// slice order; existing rows keep their position.
func (r *PostgresRepo) UpsertBooks(ctx context.Context, books []book.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, b := range books {
		batch.Queue(upsertBookSQL,
			b.ID, b.Title, b.Author, b.Genre, b.Price, b.InStock,
			b.Rating, b.ReviewCount, b.Thumbnail, b.Description)
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, fmt.Errorf("upsert %d books: %w", len(books), err)
	}
	return len(books), nil
}

// Truncate removes every book and restarts positions.
func (r *PostgresRepo) Truncate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "TRUNCATE books RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate books: %w", err)
	}
	return nil
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (string, error) {
	const sql = `
		INSERT INTO ingest_runs (page_size, max_books, status, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id string
	err := r.db.QueryRow(ctx, sql, run.PageSize, run.MaxBooks, run.Status, run.StartedAt).Scan(&id)
	return id, err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE ingest_runs SET
			finished_at = $1,
			status = $2,
			pages_fetched = $3,
			books_fetched = $4,
			books_upserted = $5,
			books_skipped = $6,
			error = $7
		WHERE id = $8`

	_, err := r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.PagesFetched, run.BooksFetched,
		run.BooksUpserted, run.BooksSkipped, run.Error, run.ID)
	return err
}
