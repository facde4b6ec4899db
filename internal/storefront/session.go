package storefront

import (
	"bookstore/internal/query"
)

// Session is one shopper's browsing state over a snapshot of the catalog.
// It is not safe for concurrent use.
type Session struct {
	svc    *Service
	engine *query.Engine
}

// NewSession starts a session over the currently loaded catalog.
func (s *Service) NewSession() *Session {
	return &Session{svc: s, engine: s.fork()}
}

// Refresh moves the session onto the latest loaded catalog, keeping its query state.
func (s *Session) Refresh() {
	latest := s.svc.fork()
	s.engine.Load(latest.Books())
}

func (s *Session) View() query.View {
	return s.engine.Query()
}

func (s *Session) State() query.State {
	return s.engine.State()
}

func (s *Session) Search(term string) {
	s.engine.SetSearchTerm(term)
}

func (s *Session) UpdateFilters(u query.FilterUpdate) {
	s.engine.UpdateFilters(u)
}

// ToggleGenre selects genre, or clears the genre filter if it is already selected.
func (s *Session) ToggleGenre(genre string) {
	s.engine.UpdateFilters(query.ToggleGenre(s.engine.State().Genre, genre))
}

// ToggleStock selects the stock filter, or clears it if it is already selected.
func (s *Session) ToggleStock(stock query.StockFilter) {
	s.engine.UpdateFilters(query.ToggleStock(s.engine.State().Stock, stock))
}

func (s *Session) SetMinPrice(min float64) {
	s.engine.UpdateFilters(query.WithMinPrice(s.engine.State().PriceRange, min))
}

func (s *Session) SetMaxPrice(max float64) {
	s.engine.UpdateFilters(query.WithMaxPrice(s.engine.State().PriceRange, max))
}

func (s *Session) Reset() {
	s.engine.ResetFilters()
}

// GoTo moves to page if it exists and differs from the current page. It
// reports whether the page changed.
func (s *Session) GoTo(page int) bool {
	v := s.engine.Query()
	if page < 1 || page > v.TotalPages || page == v.CurrentPage {
		return false
	}
	s.engine.SetPage(page)
	return true
}

func (s *Session) Next() bool {
	return s.GoTo(s.engine.State().CurrentPage + 1)
}

func (s *Session) Prev() bool {
	return s.GoTo(s.engine.State().CurrentPage - 1)
}
