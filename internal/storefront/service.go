package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/query"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// LoadError reports that the catalog could not be obtained. The previously
// loaded collection stays in place.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Status describes the last catalog load.
type Status struct {
	Loaded    bool      `json:"loaded"`
	Books     int       `json:"books"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// Service owns the loaded catalog and hands out query views over it.
type Service struct {
	source  book.Source
	log     *zap.Logger
	details *cache.Cache
	now     func() time.Time

	mu       sync.RWMutex
	engine   *query.Engine
	loaded   bool
	loadedAt time.Time
	lastErr  error
	// gen counts successful loads; detail results fetched under an older
	// generation are not cached.
	gen uint64
}

// NewService creates a storefront over source with the given page size and
// detail cache lifetime.
func NewService(source book.Source, itemsPerPage int, detailTTL time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if detailTTL <= 0 {
		detailTTL = 5 * time.Minute
	}
	return &Service{
		source:  source,
		log:     log.Named("storefront"),
		details: cache.New(detailTTL, 2*detailTTL),
		now:     time.Now,
		engine:  query.NewEngine(itemsPerPage),
	}
}

// Load fetches the full collection and replaces the loaded catalog. On
// failure it returns a *LoadError and keeps the previous catalog.
func (s *Service) Load(ctx context.Context) (int, error) {
	start := s.now()
	books, err := s.source.FetchAll(ctx)
	if err != nil {
		lerr := &LoadError{Err: err}
		s.mu.Lock()
		s.lastErr = lerr
		s.mu.Unlock()
		s.log.Error("catalog load failed", zap.Error(err))
		return 0, lerr
	}

	s.mu.Lock()
	s.engine.Load(books)
	s.loaded = true
	s.loadedAt = s.now()
	s.lastErr = nil
	s.gen++
	s.details.Flush()
	s.mu.Unlock()

	s.log.Info("catalog loaded",
		zap.Int("books", len(books)),
		zap.Duration("took", s.now().Sub(start)),
	)
	return len(books), nil
}

// RefreshEvery reloads the catalog on every tick until ctx is done. Failed
// reloads are logged by Load and leave the current catalog in place.
func (s *Service) RefreshEvery(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Load(ctx)
		}
	}
}

// Status reports whether a load has succeeded and the last failure, if any.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Loaded:   s.loaded,
		Books:    s.engine.Len(),
		LoadedAt: s.loadedAt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Service) ItemsPerPage() int {
	return s.engine.ItemsPerPage()
}

// Facets returns the catalog-wide genres, price bounds and availability counts.
func (s *Service) Facets() query.Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Facets()
}

// fork returns a private engine over the current catalog.
func (s *Service) fork() *query.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Fork()
}

// Params are the query inputs of a single stateless browse request.
// Nil price bounds keep the corresponding catalog bound.
type Params struct {
	Search   string
	Genre    string
	MinPrice *float64
	MaxPrice *float64
	Stock    query.StockFilter
	Page     int
}

// Browse evaluates p against the current catalog.
func (s *Service) Browse(p Params) (query.View, query.State) {
	e := s.fork()
	applyParams(e, p)
	return e.Query(), e.State()
}

func applyParams(e *query.Engine, p Params) {
	e.SetSearchTerm(p.Search)

	var u query.FilterUpdate
	if p.Genre != "" {
		u.Genre = &p.Genre
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		pr := e.State().PriceRange
		if p.MinPrice != nil {
			pr.Min = *p.MinPrice
		}
		if p.MaxPrice != nil {
			pr.Max = *p.MaxPrice
		}
		u.PriceRange = &pr
	}
	if p.Stock != query.StockAny {
		u.Stock = &p.Stock
	}
	if !u.IsEmpty() {
		e.UpdateFilters(u)
	}

	if p.Page > 0 {
		e.SetPage(p.Page)
	}
}

// Book returns the details of one book. It asks the source first, caching
// the answer; when the source is unreachable it falls back to the loaded catalog.
func (s *Service) Book(ctx context.Context, id string) (book.Book, error) {
	if x, found := s.details.Get(id); found {
		return x.(book.Book), nil
	}

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	b, err := s.source.FetchByID(ctx, id)
	if err == nil {
		s.mu.RLock()
		if s.gen == gen {
			s.details.Set(id, b, cache.DefaultExpiration)
		}
		s.mu.RUnlock()
		return b, nil
	}
	if errors.Is(err, book.ErrNotFound) {
		return book.Book{}, err
	}

	s.mu.RLock()
	loaded, ok := s.engine.Find(id)
	s.mu.RUnlock()
	if ok {
		s.log.Warn("book detail fetch failed, serving loaded copy",
			zap.String("book_id", id),
			zap.Error(err),
		)
		return loaded, nil
	}
	return book.Book{}, fmt.Errorf("fetch book %s: %w", id, err)
}

// SearchRemote runs the source's own title and author search, bypassing the
// loaded catalog and its filters.
func (s *Service) SearchRemote(ctx context.Context, q string) ([]book.Book, error) {
	books, err := s.source.Search(ctx, q)
	if err != nil {
		s.log.Warn("remote search failed", zap.String("q", q), zap.Error(err))
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}
