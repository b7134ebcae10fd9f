// Package pagination derives page navigation affordances from pagination
// state. It is pure and has no knowledge of how pages are fetched.
package pagination

import "strconv"

// windowSize is the number of page numbers shown when the list is truncated
// at either end.
const windowSize = 5

// Item is a single entry of a navigation plan: either a page number or an
// ellipsis marking omitted pages.
type Item struct {
	Page     int
	Ellipsis bool
}

// PageItem returns an [Item] for page n.
func PageItem(n int) Item {
	return Item{Page: n}
}

// EllipsisItem returns an [Item] representing omitted pages.
func EllipsisItem() Item {
	return Item{Ellipsis: true}
}

func (i Item) String() string {
	if i.Ellipsis {
		return "…"
	}

	return strconv.Itoa(i.Page)
}

// Info is the pagination state of a listing.
type Info struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Empty returns the state of a listing with no results.
func Empty(limit int) Info {
	return Info{Page: 1, Limit: limit}
}

// HasNext reports whether a page exists after the current one.
func (i Info) HasNext() bool {
	return i.Page < i.TotalPages
}

// HasPrevious reports whether a page exists before the current one.
func (i Info) HasPrevious() bool {
	return i.Page > 1
}

// Contains reports whether page n is addressable.
func (i Info) Contains(n int) bool {
	return n >= 1 && n <= i.TotalPages
}

// Plan returns the ordered list of page numbers and ellipses to display for
// the given current page and page count.
//
// Up to five pages are listed in full. Near the start the first five pages
// are shown, near the end the last five. Otherwise the first and last pages
// frame the current page and its neighbours, with an ellipsis on each side
// where pages are omitted.
func Plan(current, totalPages int) []Item {
	if totalPages <= 0 {
		return nil
	}

	if totalPages <= windowSize {
		return pageRange(1, totalPages)
	}

	if current <= 3 {
		return pageRange(1, windowSize)
	}

	if current >= totalPages-2 {
		return pageRange(totalPages-windowSize+1, totalPages)
	}

	items := make([]Item, 0, windowSize+2)
	items = append(items, PageItem(1))

	if current > 4 {
		items = append(items, EllipsisItem())
	}

	items = append(items,
		PageItem(current-1),
		PageItem(current),
		PageItem(current+1),
	)

	if current < totalPages-3 {
		items = append(items, EllipsisItem())
	}

	return append(items, PageItem(totalPages))
}

// Visible reports whether a navigation bar should be shown at all.
func Visible(totalPages int) bool {
	return totalPages > 1
}

// ItemRange returns the 1-based positions of the first and last records on
// the current page, as shown in a "showing X to Y of Z" line. Both are zero
// when there are no records.
func ItemRange(info Info) (int, int) {
	if info.Total <= 0 {
		return 0, 0
	}

	start := (info.Page-1)*info.Limit + 1
	end := min(info.Page*info.Limit, info.Total)

	return start, end
}

// TotalPages returns the number of pages needed for total records.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}

	return (total + limit - 1) / limit
}

func pageRange(from, to int) []Item {
	items := make([]Item, 0, to-from+1)
	for n := from; n <= to; n++ {
		items = append(items, PageItem(n))
	}

	return items
}
