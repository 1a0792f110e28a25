// Package paging splits ordered result sets into numbered pages.
package paging

import "strconv"

// Page sizes used by the listings.
const (
	WebListSize = 12
	MyItemsSize = 10
	APIListSize = 10
)

// Page is one slice of a larger ordered result.
type Page[T any] struct {
	Items      []T  `json:"results"`
	Number     int  `json:"page"`
	Size       int  `json:"page_size"`
	Total      int  `json:"count"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_previous"`
	HasNext    bool `json:"has_next"`
}

// PrevNumber returns the previous page number.
func (p Page[T]) PrevNumber() int { return p.Number - 1 }

// NextNumber returns the next page number.
func (p Page[T]) NextNumber() int { return p.Number + 1 }

// Bounds clamps number to the pages available for total results and
// returns it with the offset of the page's first result. A non-positive size
// falls back to APIListSize.
func Bounds(number, size, total int) (page, offset int) {
	if size <= 0 {
		size = APIListSize
	}
	pages := max((total+size-1)/size, 1)
	page = min(max(number, 1), pages)
	return page, (page - 1) * size
}

// New wraps one page of results, already limited to size, of a total
// result count. number should come from Bounds.
func New[T any](items []T, number, size, total int) Page[T] {
	if size <= 0 {
		size = APIListSize
	}
	if items == nil {
		items = []T{}
	}
	pages := max((total+size-1)/size, 1)
	return Page[T]{
		Items:      items,
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: pages,
		HasPrev:    number > 1,
		HasNext:    number < pages,
	}
}

// ParseNumber reads a page number, treating anything invalid as page 1.
func ParseNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
