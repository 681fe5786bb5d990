package search

import (
	"github.com/forgeapps/advsearch/pkg/core"
)

// ResultView is the read-only page of results handed to the
// presentation layer. It is owned by the caller for the duration of
// one request and never persisted.
type ResultView struct {
	// TotalDisplayed is the number of items on this page, not the
	// grand total across all pages.
	TotalDisplayed int

	// Page is the 1-based page number this view represents.
	Page int

	// Items is the ordered slice of matches for this page.
	Items []core.Match

	// HasNextPage reports whether a further page exists.
	HasNextPage bool
}

// Paginate slices the sorted match sequence into one page. Requesting
// a page past the end is a normal outcome and yields an empty view,
// never an error.
func Paginate(sorted []core.Match, page, perPage int) *ResultView {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * perPage
	if offset >= len(sorted) {
		return emptyView(page)
	}

	end := offset + perPage
	if end > len(sorted) {
		end = len(sorted)
	}

	items := sorted[offset:end]
	return &ResultView{
		TotalDisplayed: len(items),
		Page:           page,
		Items:          items,
		HasNextPage:    offset+perPage < len(sorted),
	}
}

func emptyView(page int) *ResultView {
	return &ResultView{
		TotalDisplayed: 0,
		Page:           page,
		Items:          []core.Match{},
		HasNextPage:    false,
	}
}
