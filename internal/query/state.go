package query

import (
	"fmt"
	"strings"
)

// DefaultItemsPerPage is the page size used when none is configured.
const DefaultItemsPerPage = 12

// PriceRange is an inclusive {min, max} price window. Min <= Max is not enforced.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies in [Min, Max]. An inverted range contains nothing.
func (p PriceRange) Contains(price float64) bool {
	return price >= p.Min && price <= p.Max
}

// StockFilter is the tri-state availability filter.
type StockFilter int

const (
	StockAny StockFilter = iota
	StockInStock
	StockOutOfStock
)

// Matches reports whether a book with the given stock flag passes the filter.
func (s StockFilter) Matches(inStock bool) bool {
	switch s {
	case StockInStock:
		return inStock
	case StockOutOfStock:
		return !inStock
	default:
		return true
	}
}

func (s StockFilter) String() string {
	switch s {
	case StockInStock:
		return "in_stock"
	case StockOutOfStock:
		return "out_of_stock"
	default:
		return ""
	}
}

func (s StockFilter) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StockFilter) UnmarshalText(text []byte) error {
	v, err := ParseStockFilter(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStockFilter accepts "", "in_stock"/"true" and "out_of_stock"/"false".
func ParseStockFilter(s string) (StockFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return StockAny, nil
	case "in_stock", "true":
		return StockInStock, nil
	case "out_of_stock", "false":
		return StockOutOfStock, nil
	default:
		return StockAny, fmt.Errorf("invalid stock filter %q", s)
	}
}

// State is the query state owned by an Engine. An empty Genre means no genre filter.
type State struct {
	SearchTerm   string      `json:"search_term"`
	Genre        string      `json:"genre,omitempty"`
	PriceRange   PriceRange  `json:"price_range"`
	Stock        StockFilter `json:"stock,omitempty"`
	CurrentPage  int         `json:"current_page"`
	ItemsPerPage int         `json:"items_per_page"`
}

// FilterUpdate is a partial filter change. Nil fields are left untouched;
// a non-nil empty Genre clears the genre filter.
type FilterUpdate struct {
	Genre      *string
	PriceRange *PriceRange
	Stock      *StockFilter
}

// IsEmpty reports whether the update carries no fields.
func (u FilterUpdate) IsEmpty() bool {
	return u.Genre == nil && u.PriceRange == nil && u.Stock == nil
}

// ToggleGenre selects picked, or clears the genre filter when picked is already selected.
func ToggleGenre(current, picked string) FilterUpdate {
	next := picked
	if picked == current {
		next = ""
	}
	return FilterUpdate{Genre: &next}
}

// ToggleStock selects picked, or clears the stock filter when picked is already selected.
func ToggleStock(current, picked StockFilter) FilterUpdate {
	next := picked
	if picked == current {
		next = StockAny
	}
	return FilterUpdate{Stock: &next}
}

// WithMinPrice changes the lower bound, carrying over the current upper bound.
func WithMinPrice(current PriceRange, min float64) FilterUpdate {
	return FilterUpdate{PriceRange: &PriceRange{Min: min, Max: current.Max}}
}

// WithMaxPrice changes the upper bound, carrying over the current lower bound.
func WithMaxPrice(current PriceRange, max float64) FilterUpdate {
	return FilterUpdate{PriceRange: &PriceRange{Min: current.Min, Max: max}}
}
