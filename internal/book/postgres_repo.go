package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, author, genre, price, in_stock, rating, review_count, thumbnail, description`

// PostgresSource serves the catalog from the books table.
type PostgresSource struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresSource(db *pgxpool.Pool, timeout time.Duration) *PostgresSource {
	return &PostgresSource{db: db, timeout: timeout}
}

func (r *PostgresSource) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// FetchAll returns every book in insertion order.
func (r *PostgresSource) FetchAll(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, `SELECT `+bookColumns+` FROM books ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch books: %w", err)
	}
	return collectBooks(rows)
}

func (r *PostgresSource) FetchByID(ctx context.Context, id string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, `SELECT `+bookColumns+` FROM books WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return Book{}, fmt.Errorf("fetch book %s: %w", id, err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBook)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("fetch book %s: %w", id, err)
	}
	return b, nil
}

// Search matches title or author case-insensitively.
func (r *PostgresSource) Search(ctx context.Context, q string) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	const query = `SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE $1 OR author ILIKE $1
		ORDER BY position ASC`

	rows, err := r.db.Query(timeoutCtx, query, "%"+escapeLike(q)+"%")
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return collectBooks(rows)
}

func (r *PostgresSource) FetchPage(ctx context.Context, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 12
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count books: %w", err)
	}

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2,
		`SELECT `+bookColumns+` FROM books ORDER BY position ASC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return Page{}, fmt.Errorf("fetch books page %d: %w", page, err)
	}
	books, err := collectBooks(rows)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Books:       books,
		TotalCount:  total,
		TotalPages:  TotalPagesFor(total, limit),
		CurrentPage: page,
	}, nil
}

// escapeLike quotes the ILIKE wildcards so q matches literally.
func escapeLike(q string) string {
	return likeEscaper.Replace(q)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func collectBooks(rows pgx.Rows) ([]Book, error) {
	books, err := pgx.CollectRows(rows, scanBook)
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

func scanBook(row pgx.CollectableRow) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.Price, &b.InStock,
		&b.Rating, &b.ReviewCount, &b.Thumbnail, &b.Description,
	)
	return b, err
}
