// Package pagination computes the visible page-number window shared by
// every list view. Pure functions of their arguments, no state.
package pagination

// Nav describes the navigation controls for a list view: the visible
// window of page indices plus the enabled/disabled state of the edge
// controls. Pages are 0-based.
type Nav struct {
	Pages   []int `json:"pages"`
	First   int   `json:"first"`
	Last    int   `json:"last"`
	HasPrev bool  `json:"hasPrev"`
	HasNext bool  `json:"hasNext"`
}

// Window returns a contiguous run of page indices of length
// min(windowSize, totalPages), clamped to [0, totalPages), shifted so
// that page stays inside whenever that is possible. totalPages <= 0 or
// windowSize <= 0 yields an empty window.
func Window(page, totalPages, windowSize int) []int {
	if totalPages <= 0 || windowSize <= 0 {
		return nil
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	half := windowSize / 2
	start := page - half
	if start < 0 {
		start = 0
	}
	end := start + windowSize
	if end > totalPages {
		end = totalPages
		start = end - windowSize
		if start < 0 {
			start = 0
		}
	}

	pages := make([]int, 0, end-start)
	for p := start; p < end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Navigate bundles Window with the edge-control state for a view.
func Navigate(page, totalPages, windowSize int) Nav {
	nav := Nav{
		Pages: Window(page, totalPages, windowSize),
		First: 0,
		Last:  totalPages - 1,
	}
	if totalPages <= 0 {
		nav.Last = 0
		return nav
	}
	nav.HasPrev = page > 0
	nav.HasNext = page < totalPages-1
	return nav
}
