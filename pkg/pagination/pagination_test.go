package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/leads/pkg/pagination"
)

func pages(ns ...int) []pagination.Item {
	items := make([]pagination.Item, 0, len(ns))
	for _, n := range ns {
		if n < 0 {
			items = append(items, pagination.EllipsisItem())

			continue
		}

		items = append(items, pagination.PageItem(n))
	}

	return items
}

func TestPlan(t *testing.T) {
	t.Parallel()

	const gap = -1

	tests := map[string]struct {
		want    []pagination.Item
		current int
		total   int
	}{
		"no pages": {
			current: 1,
			total:   0,
			want:    nil,
		},
		"single page": {
			current: 1,
			total:   1,
			want:    pages(1),
		},
		"three pages": {
			current: 2,
			total:   3,
			want:    pages(1, 2, 3),
		},
		"exactly five pages": {
			current: 5,
			total:   5,
			want:    pages(1, 2, 3, 4, 5),
		},
		"near start": {
			current: 1,
			total:   10,
			want:    pages(1, 2, 3, 4, 5),
		},
		"third page": {
			current: 3,
			total:   10,
			want:    pages(1, 2, 3, 4, 5),
		},
		"fourth page has no leading gap": {
			current: 4,
			total:   10,
			want:    pages(1, 3, 4, 5, gap, 10),
		},
		"middle": {
			current: 5,
			total:   10,
			want:    pages(1, gap, 4, 5, 6, gap, 10),
		},
		"near end without trailing gap": {
			current: 7,
			total:   10,
			want:    pages(1, gap, 6, 7, 8, 10),
		},
		"within last three": {
			current: 8,
			total:   10,
			want:    pages(6, 7, 8, 9, 10),
		},
		"last page": {
			current: 10,
			total:   10,
			want:    pages(6, 7, 8, 9, 10),
		},
		"six pages on page four": {
			current: 4,
			total:   6,
			want:    pages(2, 3, 4, 5, 6),
		},
		"large listing": {
			current: 50,
			total:   100,
			want:    pages(1, gap, 49, 50, 51, gap, 100),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := pagination.Plan(tc.current, tc.total)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	t.Parallel()

	for total := 1; total <= 20; total++ {
		for current := 1; current <= total; current++ {
			a := pagination.Plan(current, total)
			b := pagination.Plan(current, total)
			assert.Equal(t, a, b)

			// The current page is always listed.
			found := false
			for _, item := range a {
				if !item.Ellipsis && item.Page == current {
					found = true
				}
			}

			assert.True(t, found, "page %d of %d missing from plan", current, total)
		}
	}
}

func TestVisible(t *testing.T) {
	t.Parallel()

	assert.False(t, pagination.Visible(0))
	assert.False(t, pagination.Visible(1))
	assert.True(t, pagination.Visible(2))
}

func TestItemRange(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		info      pagination.Info
		wantStart int
		wantEnd   int
	}{
		"empty": {
			info: pagination.Empty(10),
		},
		"first page": {
			info:      pagination.Info{Page: 1, Limit: 10, Total: 42, TotalPages: 5},
			wantStart: 1,
			wantEnd:   10,
		},
		"partial last page": {
			info:      pagination.Info{Page: 5, Limit: 10, Total: 42, TotalPages: 5},
			wantStart: 41,
			wantEnd:   42,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			start, end := pagination.ItemRange(tc.info)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, pagination.TotalPages(0, 10))
	assert.Equal(t, 1, pagination.TotalPages(10, 10))
	assert.Equal(t, 5, pagination.TotalPages(42, 10))
	assert.Equal(t, 0, pagination.TotalPages(5, 0))
}

func TestInfoBounds(t *testing.T) {
	t.Parallel()

	info := pagination.Info{Page: 2, Limit: 10, Total: 30, TotalPages: 3}
	assert.True(t, info.HasNext())
	assert.True(t, info.HasPrevious())
	assert.True(t, info.Contains(3))
	assert.False(t, info.Contains(0))
	assert.False(t, info.Contains(4))

	assert.Equal(t, "…", pagination.EllipsisItem().String())
	assert.Equal(t, "7", pagination.PageItem(7).String())
}
