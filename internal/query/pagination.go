package query

import (
	"bookstore/internal/book"
)

// windowSize is the largest page count rendered without gaps.
const windowSize = 7

// Paginate returns the page-th slice of size perPage. Pages outside the
// result set yield an empty, non-nil slice.
func Paginate(books []book.Book, page, perPage int) []book.Book {
	if page < 1 || perPage <= 0 || len(books) == 0 {
		return []book.Book{}
	}
	// Compare page indexes before multiplying so huge pages cannot overflow.
	if page-1 > (len(books)-1)/perPage {
		return []book.Book{}
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(books))
	out := make([]book.Book, end-start)
	copy(out, books[start:end])
	return out
}

// TotalPages returns ceil(total/perPage).
func TotalPages(total, perPage int) int {
	return book.TotalPagesFor(total, perPage)
}

// PageLink is one entry of a pagination bar; Gap marks an ellipsis.
type PageLink struct {
	Number  int  `json:"number,omitempty"`
	Gap     bool `json:"gap,omitempty"`
	Current bool `json:"current,omitempty"`
}

// PageWindow lays out the pagination bar for current out of total pages.
// Up to seven pages are listed in full; beyond that the first and last page
// stay visible and the rest collapses around the current page.
func PageWindow(current, total int) []PageLink {
	if total <= 0 {
		return nil
	}

	var nums []int
	switch {
	case total <= windowSize:
		for i := 1; i <= total; i++ {
			nums = append(nums, i)
		}
	case current <= 4:
		nums = []int{1, 2, 3, 4, 5, 0, total}
	case current >= total-3:
		nums = []int{1, 0, total - 4, total - 3, total - 2, total - 1, total}
	default:
		nums = []int{1, 0, current - 1, current, current + 1, 0, total}
	}

	links := make([]PageLink, 0, len(nums))
	for _, n := range nums {
		if n == 0 {
			links = append(links, PageLink{Gap: true})
			continue
		}
		links = append(links, PageLink{Number: n, Current: n == current})
	}
	return links
}
