package search

import (
	"fmt"
	"testing"

	"github.com/forgeapps/advsearch/pkg/core"
)

func makeMatches(n int) []core.Match {
	matches := make([]core.Match, n)
	for i := range matches {
		matches[i] = core.Match{
			Source: "ticket",
			Title:  fmt.Sprintf("ticket %02d", i),
			Href:   fmt.Sprintf("/ticket/%d", i),
		}
	}
	return matches
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		page        int
		perPage     int
		wantCount   int
		wantFirst   string
		wantHasNext bool
	}{
		{"first of three pages", 23, 1, 10, 10, "ticket 00", true},
		{"middle page", 23, 2, 10, 10, "ticket 10", true},
		{"short last page", 23, 3, 10, 3, "ticket 20", false},
		{"exact fit last page", 20, 2, 10, 10, "ticket 10", false},
		{"single page", 5, 1, 10, 5, "ticket 00", false},
		{"page past the end", 23, 4, 10, 0, "", false},
		{"far past the end", 23, 99, 10, 0, "", false},
		{"empty input", 0, 1, 10, 0, "", false},
		{"page clamps to one", 23, 0, 10, 10, "ticket 00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Paginate(makeMatches(tt.total), tt.page, tt.perPage)

			if view.TotalDisplayed != tt.wantCount {
				t.Errorf("expected %d items, got %d", tt.wantCount, view.TotalDisplayed)
			}
			if len(view.Items) != tt.wantCount {
				t.Errorf("TotalDisplayed %d disagrees with len(Items) %d", view.TotalDisplayed, len(view.Items))
			}
			if view.HasNextPage != tt.wantHasNext {
				t.Errorf("expected HasNextPage=%v, got %v", tt.wantHasNext, view.HasNextPage)
			}
			if tt.wantCount > 0 && view.Items[0].Title != tt.wantFirst {
				t.Errorf("expected first item %q, got %q", tt.wantFirst, view.Items[0].Title)
			}
			if view.Items == nil {
				t.Error("Items must never be nil")
			}
		})
	}
}

func TestPaginatePageNumberPreserved(t *testing.T) {
	view := Paginate(makeMatches(5), 7, 10)
	if view.Page != 7 {
		t.Errorf("expected requested page echoed back, got %d", view.Page)
	}
	if view.TotalDisplayed != 0 {
		t.Errorf("expected empty past-end page, got %d items", view.TotalDisplayed)
	}
}
