package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"bookstore/internal/book"
)

// TestBook is a sample book for testing
var TestBook = book.Book{
	ID:          "1",
	Title:       "The Go Programming Language",
	Author:      "Alan Donovan",
	Genre:       "Technology",
	Price:       39.99,
	InStock:     true,
	Rating:      4.7,
	ReviewCount: 1280,
	Thumbnail:   "https://example.com/gopl.jpg",
	Description: "The authoritative resource for writing clear and idiomatic Go.",
}

// NewBook builds a book with the fields the query engine filters on.
func NewBook(id, genre string, price float64, inStock bool) book.Book {
	return book.Book{
		ID:      id,
		Title:   "Book " + id,
		Author:  "Author " + id,
		Genre:   genre,
		Price:   price,
		InStock: inStock,
	}
}

// Books generates n in-stock books in genre "Fiction" priced 10.
func Books(n int) []book.Book {
	out := make([]book.Book, n)
	for i := range out {
		out[i] = NewBook(fmt.Sprintf("b%d", i+1), "Fiction", 10, true)
	}
	return out
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
