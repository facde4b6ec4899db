package query

import (
	"math"
	"slices"

	"bookstore/internal/book"
)

// EmptyPriceBounds are reported for an empty catalog.
var EmptyPriceBounds = PriceRange{Min: 0, Max: 100}

// Availability counts in-stock and out-of-stock books.
type Availability struct {
	InStock    int `json:"in_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// Facets summarise the whole loaded catalog, independent of any filter.
type Facets struct {
	Genres       []string     `json:"genres"`
	PriceBounds  PriceRange   `json:"price_bounds"`
	Availability Availability `json:"availability"`
}

// ComputeFacets scans books once for distinct sorted genres, floor/ceil price
// bounds and stock counts.
func ComputeFacets(books []book.Book) Facets {
	f := Facets{
		Genres:      []string{},
		PriceBounds: EmptyPriceBounds,
	}
	if len(books) == 0 {
		return f
	}

	seen := make(map[string]struct{})
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range books {
		if _, ok := seen[b.Genre]; !ok {
			seen[b.Genre] = struct{}{}
			f.Genres = append(f.Genres, b.Genre)
		}
		lo = math.Min(lo, b.Price)
		hi = math.Max(hi, b.Price)
		if b.InStock {
			f.Availability.InStock++
		} else {
			f.Availability.OutOfStock++
		}
	}
	slices.Sort(f.Genres)
	f.PriceBounds = PriceRange{Min: math.Floor(lo), Max: math.Ceil(hi)}
	return f
}

func (f Facets) clone() Facets {
	f.Genres = slices.Clone(f.Genres)
	return f
}
