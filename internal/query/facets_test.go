package query

import (
	"testing"

	"bookstore/internal/book"
	"bookstore/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestComputeFacets(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f := ComputeFacets(nil)
		assert.Equal(t, []string{}, f.Genres)
		assert.Equal(t, EmptyPriceBounds, f.PriceBounds)
		assert.Equal(t, Availability{}, f.Availability)
	})

	t.Run("distinct sorted genres", func(t *testing.T) {
		f := ComputeFacets([]book.Book{
			testutil.NewBook("1", "Romance", 1, true),
			testutil.NewBook("2", "Biography", 1, true),
			testutil.NewBook("3", "Romance", 1, true),
			testutil.NewBook("4", "Art", 1, true),
		})
		assert.Equal(t, []string{"Art", "Biography", "Romance"}, f.Genres)
	})

	t.Run("bounds are floored and ceiled", func(t *testing.T) {
		f := ComputeFacets([]book.Book{
			testutil.NewBook("1", "Art", 9.99, true),
			testutil.NewBook("2", "Art", 24.01, false),
			testutil.NewBook("3", "Art", 12, false),
		})
		assert.Equal(t, PriceRange{Min: 9, Max: 25}, f.PriceBounds)
		assert.Equal(t, Availability{InStock: 1, OutOfStock: 2}, f.Availability)
	})

	t.Run("whole prices stay put", func(t *testing.T) {
		f := ComputeFacets([]book.Book{testutil.NewBook("1", "Art", 20, true)})
		assert.Equal(t, PriceRange{Min: 20, Max: 20}, f.PriceBounds)
	})
}

func TestEngine_FacetsAreCopied(t *testing.T) {
	e := NewEngine(0)
	e.Load([]book.Book{testutil.NewBook("1", "Art", 1, true)})

	f := e.Facets()
	f.Genres[0] = "Changed"
	v := e.Query()
	v.AvailableGenres[0] = "Changed too"

	assert.Equal(t, []string{"Art"}, e.Facets().Genres)
}
