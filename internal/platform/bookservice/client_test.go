package bookservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", opts)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestClient_FetchAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/books", r.URL.Path)
			assert.Equal(t, "bookstore/1.0", r.Header.Get("User-Agent"))
			writeJSON(w, []book.Book{testutil.TestBook})
		}, Options{})

		books, err := c.FetchAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []book.Book{testutil.TestBook}, books)
	})

	t.Run("empty body list", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("null"))
		}, Options{})

		books, err := c.FetchAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, Options{})

		_, err := c.FetchAll(ctx)
		require.Error(t, err)

		var nerr *NetworkError
		require.True(t, errors.As(err, &nerr))
		assert.Equal(t, http.StatusInternalServerError, nerr.StatusCode)
		assert.Equal(t, "fetch books", nerr.Op)
		assert.True(t, IsNetworkError(err))
	})

	t.Run("bad json", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}, Options{})

		_, err := c.FetchAll(ctx)
		assert.True(t, IsNetworkError(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(srv.URL, Options{Timeout: time.Second})

		_, err := c.FetchAll(ctx)
		var nerr *NetworkError
		require.True(t, errors.As(err, &nerr))
		assert.Zero(t, nerr.StatusCode)
	})
}

func TestClient_FetchAll_NoRetryByDefault(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, Options{})

	_, err := c.FetchAll(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_FetchAll_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, []book.Book{testutil.TestBook})
	}, Options{MaxRetries: 1})

	books, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_FetchAll_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}, Options{MaxRetries: 3})

	_, err := c.FetchAll(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_FetchByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/books/1" {
			writeJSON(w, testutil.TestBook)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("{}"))
	}, Options{})

	t.Run("found", func(t *testing.T) {
		b, err := c.FetchByID(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, testutil.TestBook, b)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.FetchByID(context.Background(), "42")
		assert.ErrorIs(t, err, book.ErrNotFound)
	})
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "go lang", r.URL.Query().Get("q"))
		writeJSON(w, []book.Book{testutil.TestBook})
	}, Options{})

	books, err := c.Search(context.Background(), "go lang")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestClient_FetchPage(t *testing.T) {
	t.Run("reads total count header", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("_page"))
			assert.Equal(t, "12", r.URL.Query().Get("_limit"))
			w.Header().Set("X-Total-Count", "25")
			writeJSON(w, testutil.Books(12))
		}, Options{})

		page, err := c.FetchPage(context.Background(), 2, 12)
		require.NoError(t, err)
		assert.Len(t, page.Books, 12)
		assert.Equal(t, 25, page.TotalCount)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 2, page.CurrentPage)
	})

	t.Run("missing header falls back to page length", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, testutil.Books(3))
		}, Options{})

		page, err := c.FetchPage(context.Background(), 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, page.TotalCount)
		assert.Equal(t, 1, page.TotalPages)
		assert.Equal(t, 1, page.CurrentPage)
	})
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []book.Book{})
	}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
