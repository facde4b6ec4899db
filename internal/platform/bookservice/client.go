package bookservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookstore/internal/book"

	"golang.org/x/time/rate"
)

const totalCountHeader = "X-Total-Count"

// Options configures a Client. Zero values pick the defaults.
type Options struct {
	Timeout    time.Duration
	RPS        int
	MaxRetries int
	UserAgent  string
	HTTPClient *http.Client
}

// Client talks to the storefront catalog endpoint (a json-server style
// /books collection).
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "bookstore/1.0"
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Every(time.Second / time.Duration(opts.RPS))
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		userAgent:  opts.UserAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: max(opts.MaxRetries, 0),
	}
}

var _ book.Source = (*Client)(nil)

// FetchAll returns the complete collection from GET /books.
func (c *Client) FetchAll(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	if _, err := c.get(ctx, "fetch books", c.baseURL+"/books", &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// FetchByID returns GET /books/{id}. A 404 is reported as book.ErrNotFound.
func (c *Client) FetchByID(ctx context.Context, id string) (book.Book, error) {
	var b book.Book
	op := "fetch book " + id
	if _, err := c.get(ctx, op, c.baseURL+"/books/"+url.PathEscape(id), &b); err != nil {
		return book.Book{}, err
	}
	return b, nil
}

// Search runs the endpoint's full-text match, GET /books?q=.
func (c *Client) Search(ctx context.Context, q string) ([]book.Book, error) {
	params := url.Values{"q": {q}}

	var books []book.Book
	if _, err := c.get(ctx, "search books", c.baseURL+"/books?"+params.Encode(), &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// FetchPage returns one server-side page, GET /books?_page=&_limit=, with the
// total taken from the X-Total-Count header.
func (c *Client) FetchPage(ctx context.Context, page, limit int) (book.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 12
	}
	params := url.Values{
		"_page":  {strconv.Itoa(page)},
		"_limit": {strconv.Itoa(limit)},
	}

	var books []book.Book
	header, err := c.get(ctx, "fetch books page", c.baseURL+"/books?"+params.Encode(), &books)
	if err != nil {
		return book.Page{}, err
	}
	if books == nil {
		books = []book.Book{}
	}

	total, err := strconv.Atoi(header.Get(totalCountHeader))
	if err != nil {
		total = len(books)
	}

	return book.Page{
		Books:       books,
		TotalCount:  total,
		TotalPages:  book.TotalPagesFor(total, limit),
		CurrentPage: page,
	}, nil
}

func (c *Client) get(ctx context.Context, op, rawURL string, target interface{}) (http.Header, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &NetworkError{Op: op, Err: ctx.Err()}
			}
		}

		header, retry, err := c.do(ctx, op, rawURL, target)
		if err == nil {
			return header, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, op, rawURL string, target interface{}) (http.Header, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, &NetworkError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		nerr := &NetworkError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, nerr
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return nil, false, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return resp.Header, false, nil
}
