package query

import (
	"math"
	"testing"

	"bookstore/internal/testutil"

	"github.com/stretchr/testify/assert"
)

// render flattens links into page numbers with 0 for gaps.
func render(links []PageLink) []int {
	out := make([]int, len(links))
	for i, l := range links {
		if !l.Gap {
			out[i] = l.Number
		}
	}
	return out
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"no pages", 1, 0, []int{}},
		{"single page", 1, 1, []int{1}},
		{"seven pages", 4, 7, []int{1, 2, 3, 4, 5, 6, 7}},
		{"near start", 4, 20, []int{1, 2, 3, 4, 5, 0, 20}},
		{"first page", 1, 8, []int{1, 2, 3, 4, 5, 0, 8}},
		{"near end", 17, 20, []int{1, 0, 16, 17, 18, 19, 20}},
		{"last page", 20, 20, []int{1, 0, 16, 17, 18, 19, 20}},
		{"middle", 10, 20, []int{1, 0, 9, 10, 11, 0, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(PageWindow(tt.current, tt.total)))
		})
	}
}

func TestPageWindow_MarksCurrent(t *testing.T) {
	links := PageWindow(10, 20)

	var current []int
	for _, l := range links {
		if l.Current {
			current = append(current, l.Number)
		}
	}
	assert.Equal(t, []int{10}, current)
}

func TestPaginate(t *testing.T) {
	books := testutil.Books(5)

	assert.Len(t, Paginate(books, 1, 2), 2)
	assert.Len(t, Paginate(books, 3, 2), 1)
	assert.Empty(t, Paginate(books, 4, 2))
	assert.NotNil(t, Paginate(nil, 1, 2))
	assert.Empty(t, Paginate(books, 1, 0))
	assert.Empty(t, Paginate(books, math.MaxInt, 2))
	assert.NotNil(t, Paginate(books, math.MaxInt, 12))
	assert.Len(t, Paginate(books, 1, math.MaxInt), 5)
	assert.Empty(t, Paginate(books, 2, math.MaxInt))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 3, TotalPages(25, 12))
}
