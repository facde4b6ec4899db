package query

import (
	"strings"

	"bookstore/internal/book"
)

type matcher struct {
	term  string
	genre string
	price PriceRange
	stock StockFilter
}

func newMatcher(st State) matcher {
	return matcher{
		term:  strings.ToLower(st.SearchTerm),
		genre: st.Genre,
		price: st.PriceRange,
		stock: st.Stock,
	}
}

func (m matcher) match(b book.Book) bool {
	if m.term != "" &&
		!strings.Contains(strings.ToLower(b.Title), m.term) &&
		!strings.Contains(strings.ToLower(b.Author), m.term) {
		return false
	}
	if m.genre != "" && b.Genre != m.genre {
		return false
	}
	if !m.price.Contains(b.Price) {
		return false
	}
	return m.stock.Matches(b.InStock)
}

// Filter returns the books matching every predicate of st, in catalog order.
// Pagination fields of st are ignored.
func Filter(books []book.Book, st State) []book.Book {
	m := newMatcher(st)
	out := make([]book.Book, 0, len(books))
	for _, b := range books {
		if m.match(b) {
			out = append(out, b)
		}
	}
	return out
}
