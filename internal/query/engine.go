// Package query derives filtered, paginated views of an in-memory book catalog.
//
// An Engine owns the loaded collection, its catalog-wide facets and a single
// query state. Every read recomputes the view from scratch; nothing derived is
// cached across mutations. An Engine is not safe for concurrent use; share a
// loaded catalog between goroutines by handing each one a Fork.
package query

import (
	"bookstore/internal/book"
)

// View is the result of a query: the current page plus totals and facets.
type View struct {
	Items           []book.Book  `json:"items"`
	TotalResults    int          `json:"total_results"`
	TotalPages      int          `json:"total_pages"`
	CurrentPage     int          `json:"current_page"`
	ItemsPerPage    int          `json:"items_per_page"`
	AvailableGenres []string     `json:"available_genres"`
	PriceBounds     PriceRange   `json:"price_bounds"`
	Availability    Availability `json:"availability"`
}

// FirstItem is the 1-based position of the first item on the page, or 0 for an empty page.
func (v View) FirstItem() int {
	if len(v.Items) == 0 {
		return 0
	}
	return (v.CurrentPage-1)*v.ItemsPerPage + 1
}

// LastItem is the 1-based position of the last item on the page, or 0 for an empty page.
func (v View) LastItem() int {
	if len(v.Items) == 0 {
		return 0
	}
	return v.FirstItem() + len(v.Items) - 1
}

// Engine is the catalog query engine.
type Engine struct {
	books   []book.Book
	facets  Facets
	perPage int

	search string
	genre  string
	// nil follows the live price bounds of the catalog.
	priceRange *PriceRange
	stock      StockFilter
	page       int
}

// NewEngine returns an empty engine. A non-positive itemsPerPage selects DefaultItemsPerPage.
func NewEngine(itemsPerPage int) *Engine {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &Engine{
		facets:  ComputeFacets(nil),
		perPage: itemsPerPage,
		page:    1,
	}
}

// Load replaces the collection and rescans the facets. The query state is kept.
func (e *Engine) Load(books []book.Book) {
	owned := make([]book.Book, len(books))
	copy(owned, books)
	e.books = owned
	e.facets = ComputeFacets(owned)
}

// Fork returns an engine over the same collection and facets with a fresh
// default query state. The collection is shared read-only.
func (e *Engine) Fork() *Engine {
	return &Engine{
		books:   e.books,
		facets:  e.facets,
		perPage: e.perPage,
		page:    1,
	}
}

// Len returns the size of the loaded collection.
func (e *Engine) Len() int {
	return len(e.books)
}

// Books returns a copy of the loaded collection.
func (e *Engine) Books() []book.Book {
	out := make([]book.Book, len(e.books))
	copy(out, e.books)
	return out
}

// Find looks a loaded book up by id.
func (e *Engine) Find(id string) (book.Book, bool) {
	for _, b := range e.books {
		if b.ID == id {
			return b, true
		}
	}
	return book.Book{}, false
}

func (e *Engine) ItemsPerPage() int {
	return e.perPage
}

// Facets returns the catalog-wide facets.
func (e *Engine) Facets() Facets {
	return e.facets.clone()
}

// SetSearchTerm stores term verbatim and returns to the first page.
func (e *Engine) SetSearchTerm(term string) {
	e.search = term
	e.page = 1
}

// UpdateFilters merges the provided fields and returns to the first page.
// A price range always replaces both bounds together.
func (e *Engine) UpdateFilters(u FilterUpdate) {
	if u.Genre != nil {
		e.genre = *u.Genre
	}
	if u.PriceRange != nil {
		pr := *u.PriceRange
		e.priceRange = &pr
	}
	if u.Stock != nil {
		e.stock = *u.Stock
	}
	e.page = 1
}

// ResetFilters clears search and filters. The price range goes back to the
// live price bounds of the catalog.
func (e *Engine) ResetFilters() {
	e.search = ""
	e.genre = ""
	e.priceRange = nil
	e.stock = StockAny
	e.page = 1
}

// SetPage moves to page without validation. Pages outside [1, TotalPages]
// produce an empty item list.
func (e *Engine) SetPage(page int) {
	e.page = page
}

// State returns the current query state with the price range resolved.
func (e *Engine) State() State {
	pr := e.facets.PriceBounds
	if e.priceRange != nil {
		pr = *e.priceRange
	}
	return State{
		SearchTerm:   e.search,
		Genre:        e.genre,
		PriceRange:   pr,
		Stock:        e.stock,
		CurrentPage:  e.page,
		ItemsPerPage: e.perPage,
	}
}

// Query recomputes the view for the current state. It never fails.
func (e *Engine) Query() View {
	st := e.State()
	matched := Filter(e.books, st)
	total := len(matched)

	return View{
		Items:           Paginate(matched, st.CurrentPage, st.ItemsPerPage),
		TotalResults:    total,
		TotalPages:      TotalPages(total, st.ItemsPerPage),
		CurrentPage:     st.CurrentPage,
		ItemsPerPage:    st.ItemsPerPage,
		AvailableGenres: append([]string{}, e.facets.Genres...),
		PriceBounds:     e.facets.PriceBounds,
		Availability:    e.facets.Availability,
	}
}
