package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents a storefront book as served by the catalog endpoint.
// Records are treated as immutable once loaded.
type Book struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genre       string  `json:"genre"`
	Price       float64 `json:"price"`
	InStock     bool    `json:"inStock"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Description string  `json:"description,omitempty"`
}

// UnmarshalJSON accepts the id as a JSON string or number, since json-server
// style endpoints emit either.
func (b *Book) UnmarshalJSON(data []byte) error {
	type plain Book
	aux := struct {
		ID json.RawMessage `json:"id"`
		*plain
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.ID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		b.ID = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &b.ID)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("book id: %w", err)
		}
		b.ID = n.String()
	}
	return nil
}

// Page is one server-paginated slice of the catalog.
type Page struct {
	Books       []Book `json:"books"`
	TotalCount  int    `json:"total_count"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
}

// TotalPagesFor returns ceil(total/limit), or 0 when limit is not positive.
func TotalPagesFor(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
