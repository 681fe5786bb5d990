package api

import (
	"time"
)

// MatchResponse is one result item as handed to the presentation layer.
type MatchResponse struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Href      string    `json:"href"`
	Summary   string    `json:"summary"`
	Author    string    `json:"author,omitempty"`
	Date      time.Time `json:"date"`
	Relevance float64   `json:"relevance"`
}

// SearchResponse is the JSON rendition of a ResultView plus the state
// the presentation layer needs to build the next-page link.
type SearchResponse struct {
	Query          string          `json:"query"`
	Page           int             `json:"page"`
	PerPage        int             `json:"per_page"`
	TotalDisplayed int             `json:"total_displayed"`
	HasNextPage    bool            `json:"has_next_page"`
	Items          []MatchResponse `json:"items"`

	// NextPage is the query string for the following page, carrying
	// every active filter. Present only when HasNextPage is true.
	NextPage string `json:"next_page,omitempty"`
}

// SourceInfo describes one registered source for the sources listing.
type SourceInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Documents int    `json:"documents"`
}

type ListSourcesResponse struct {
	Sources []SourceInfo `json:"sources"`
	Count   int          `json:"count"`
}

type StatsResponse struct {
	Sources map[string]map[string]interface{} `json:"sources"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
