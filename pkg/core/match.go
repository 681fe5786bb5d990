package core

import (
	"fmt"
	"time"
)

// Match is a single candidate result contributed by one source adapter.
// Matches are value types; beyond stamping Source during the merge, the
// aggregation pipeline never mutates them.
type Match struct {
	// Source is the instance name of the adapter that produced this match.
	// The aggregator fills it in; adapters may leave it empty.
	Source string

	// Title is the human-readable title of the underlying document
	// (ticket summary, wiki page name, changeset message).
	Title string

	// Href links to the underlying document.
	Href string

	// Summary is a short excerpt shown under the title.
	Summary string

	// Author is the author of the underlying document. Empty when the
	// source does not track authorship for this document.
	Author string

	// Timestamp is when the underlying document was created or last
	// changed, used for date filtering and tie-breaking.
	Timestamp time.Time

	// Relevance is the source-local ranking score. Higher is better.
	// Scores are only comparable within one request; adapters should
	// derive them from their own ranking function (e.g. bm25).
	Relevance float64
}

// String returns a compact representation useful in logs and debugging.
func (m Match) String() string {
	return fmt.Sprintf("[%s] %s (%.3f)", m.Source, m.Title, m.Relevance)
}

// Document is the unit of content an indexing source stores. It mirrors
// what the search form ultimately displays: title, link, excerpt,
// author and date.
type Document struct {
	// ID identifies the document within its source (ticket number,
	// wiki page name, changeset revision). Upserting a document with
	// an existing ID replaces the previous version.
	ID string

	// Title of the document.
	Title string

	// URL is an explicit link for the document. Adapters construct one
	// from their base URL and the ID when empty.
	URL string

	// Summary is a short excerpt of the document body.
	Summary string

	// Author of the document, empty when unknown.
	Author string

	// CreatedAt is the document creation or last-change time.
	CreatedAt time.Time
}
