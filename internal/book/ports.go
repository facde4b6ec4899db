package book

import (
	"context"
)

// Source defines the contract for the remote catalog the storefront reads from.
type Source interface {
	FetchAll(ctx context.Context) ([]Book, error)
	FetchByID(ctx context.Context, id string) (Book, error)
	Search(ctx context.Context, q string) ([]Book, error)
	FetchPage(ctx context.Context, page, limit int) (Page, error)
}
