package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/query"
	"bookstore/internal/storefront"
	"bookstore/internal/testutil"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// staticSource serves a fixed catalog.
type staticSource struct {
	books []book.Book
	err   error
}

func (s *staticSource) FetchAll(ctx context.Context) ([]book.Book, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.books, nil
}

func (s *staticSource) FetchByID(ctx context.Context, id string) (book.Book, error) {
	for _, b := range s.books {
		if b.ID == id {
			return b, nil
		}
	}
	return book.Book{}, book.ErrNotFound
}

func (s *staticSource) Search(ctx context.Context, q string) ([]book.Book, error) {
	return s.books, nil
}

func (s *staticSource) FetchPage(ctx context.Context, page, limit int) (book.Page, error) {
	return book.Page{Books: s.books, TotalCount: len(s.books), TotalPages: 1, CurrentPage: 1}, nil
}

func newTestShell(t *testing.T, n int) (*shell, *bytes.Buffer, *staticSource) {
	t.Helper()
	books := make([]book.Book, n)
	for i := range books {
		genre := "Fiction"
		if i%2 == 1 {
			genre = "Poetry"
		}
		books[i] = testutil.NewBook(fmt.Sprintf("%d", i+1), genre, float64(10+i), i%4 != 3)
	}
	src := &staticSource{books: books}

	svc := storefront.NewService(src, 5, time.Minute, nil)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	var out bytes.Buffer
	return newShell(svc, &out), &out, src
}

func TestShell_Run(t *testing.T) {
	sh, out, _ := newTestShell(t, 12)

	input := strings.Join([]string{"next", "next", "next", "quit"}, "\n")
	require.NoError(t, sh.run(context.Background(), strings.NewReader(input)))

	s := out.String()
	assert.Contains(t, s, "Showing 1 to 5 of 12 results")
	assert.Contains(t, s, "Showing 6 to 10 of 12 results")
	assert.Contains(t, s, "Showing 11 to 12 of 12 results")
	assert.Contains(t, s, "already on the last page")
	assert.Equal(t, 3, sh.sess.State().CurrentPage)
}

func TestShell_RunStopsAtEOF(t *testing.T) {
	sh, _, _ := newTestShell(t, 3)
	assert.NoError(t, sh.run(context.Background(), strings.NewReader("search book")))
	assert.Equal(t, "book", sh.sess.State().SearchTerm)
}

func TestShell_Filters(t *testing.T) {
	ctx := context.Background()
	sh, out, _ := newTestShell(t, 12)

	sh.exec(ctx, "genre Poetry")
	assert.Equal(t, "Poetry", sh.sess.State().Genre)
	assert.Equal(t, 6, sh.sess.View().TotalResults)

	sh.exec(ctx, "genre Poetry")
	assert.Empty(t, sh.sess.State().Genre)

	sh.exec(ctx, "stock out")
	assert.Equal(t, query.StockOutOfStock, sh.sess.State().Stock)
	assert.Equal(t, 3, sh.sess.View().TotalResults)

	sh.exec(ctx, "stock any")
	assert.Equal(t, query.StockAny, sh.sess.State().Stock)

	sh.exec(ctx, "min 15")
	sh.exec(ctx, "max 18")
	assert.Equal(t, query.PriceRange{Min: 15, Max: 18}, sh.sess.State().PriceRange)
	assert.Equal(t, 4, sh.sess.View().TotalResults)

	sh.exec(ctx, "reset")
	assert.Equal(t, query.PriceRange{Min: 10, Max: 21}, sh.sess.State().PriceRange)

	out.Reset()
	sh.exec(ctx, "min ten")
	assert.Contains(t, out.String(), `min needs a number, got "ten"`)

	out.Reset()
	sh.exec(ctx, "stock maybe")
	assert.Contains(t, out.String(), "invalid stock filter")
}

func TestShell_Paging(t *testing.T) {
	ctx := context.Background()
	sh, out, _ := newTestShell(t, 12)

	sh.exec(ctx, "page 3")
	assert.Equal(t, 3, sh.sess.State().CurrentPage)

	out.Reset()
	sh.exec(ctx, "page 9")
	assert.Contains(t, out.String(), "no page 9 to move to")
	assert.Equal(t, 3, sh.sess.State().CurrentPage)

	sh.exec(ctx, "prev")
	assert.Equal(t, 2, sh.sess.State().CurrentPage)

	// Any filter change returns to the first page.
	sh.exec(ctx, "search book")
	assert.Equal(t, 1, sh.sess.State().CurrentPage)
}

func TestShell_Show(t *testing.T) {
	ctx := context.Background()
	sh, out, _ := newTestShell(t, 3)

	sh.exec(ctx, "show 2")
	assert.Contains(t, out.String(), "Book 2")
	assert.Contains(t, out.String(), "by Author 2")

	out.Reset()
	sh.exec(ctx, "show 99")
	assert.Contains(t, out.String(), "book 99 not found")

	out.Reset()
	sh.exec(ctx, "show")
	assert.Contains(t, out.String(), "show needs a book id")
}

func TestShell_Reload(t *testing.T) {
	ctx := context.Background()
	sh, out, src := newTestShell(t, 3)

	src.books = append(src.books, testutil.TestBook)
	out.Reset()
	sh.exec(ctx, "reload")
	assert.Contains(t, out.String(), "loaded 4 books")
	assert.Equal(t, 4, sh.sess.View().TotalResults)

	src.err = fmt.Errorf("connection refused")
	out.Reset()
	sh.exec(ctx, "reload")
	assert.Contains(t, out.String(), "Failed to fetch books")
	assert.Equal(t, 4, sh.sess.View().TotalResults)
}

func TestShell_UnknownAndHelp(t *testing.T) {
	ctx := context.Background()
	sh, out, _ := newTestShell(t, 3)

	assert.False(t, sh.exec(ctx, "fly"))
	assert.Contains(t, out.String(), `unknown command "fly"`)

	out.Reset()
	assert.False(t, sh.exec(ctx, "help"))
	assert.Contains(t, out.String(), "toggle a genre filter")

	assert.False(t, sh.exec(ctx, "   "))
	assert.True(t, sh.exec(ctx, "exit"))
}
