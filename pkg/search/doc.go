// Package search is the query execution engine behind the advanced
// search form.
//
// # Overview
//
// Given a parsed FilterSpec, the Aggregator fans the free-text term
// out to every active source adapter concurrently, merges the
// candidate matches, applies the author and date filters, sorts and
// deduplicates the merged sequence, and returns one stable page of
// results as a ResultView.
//
// # Ordering and stability
//
// The merged sequence is ordered by descending relevance, with ties
// broken by descending timestamp, then source name, then title.
// Deduplication by (source, href) keeps the first occurrence after
// sorting. Because the order is total, repeated requests over
// unchanged data paginate identically.
//
// # Failure semantics
//
//   - A failing or timed-out source is logged and excluded; its
//     siblings still contribute.
//   - When every queried source fails, Search returns
//     AllSourcesFailedError instead of a misleading empty success.
//   - A page past the end of the result set is a normal empty view.
//
// # Usage
//
//	agg := search.NewAggregator(registry, 10*time.Second)
//	view, err := agg.Search(ctx, spec)
package search
