package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/log"
	"github.com/forgeapps/advsearch/pkg/query"
)

// DefaultTimeout bounds one whole fan-out when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// AllSourcesFailedError is returned when every queried source failed.
// It is deliberately distinct from an empty result: "search
// unavailable" must never be presented as "no matches found".
type AllSourcesFailedError struct {
	// Errors maps source name to the failure it reported.
	Errors map[string]error
}

func (e *AllSourcesFailedError) Error() string {
	names := make([]string, 0, len(e.Errors))
	for name := range e.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("all %d sources failed: %s", len(e.Errors), strings.Join(names, ", "))
}

// Aggregator fans a search request out to the active source adapters,
// merges their candidate matches, applies the author and date filters,
// sorts and deduplicates, and hands the final sequence to the
// paginator. It holds no per-request state; the registry is immutable
// after startup.
type Aggregator struct {
	registry *core.Registry
	timeout  time.Duration
	logger   *log.Logger
}

// NewAggregator creates an aggregator over the given source registry.
// timeout bounds the whole fan-out per request; pass 0 for the default.
func NewAggregator(registry *core.Registry, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Aggregator{
		registry: registry,
		timeout:  timeout,
		logger:   log.ForService("search"),
	}
}

// sourceResult carries one adapter's answer back through the fan-in channel.
type sourceResult struct {
	name    string
	matches []core.Match
	err     error
}

// Search executes one request: fan-out, merge, filter, sort, dedup,
// paginate. Individual source failures are logged and excluded; only
// total failure or a blank form short-circuits.
func (a *Aggregator) Search(ctx context.Context, spec *query.FilterSpec) (*ResultView, error) {
	if spec.IsBlank() {
		// A blank form must not trigger full-source scans.
		return emptyView(spec.Page), nil
	}

	adapters := a.activeAdapters(spec)
	if len(adapters) == 0 {
		return emptyView(spec.Page), nil
	}

	merged, failures := a.fanOut(ctx, adapters, spec.RawQuery)
	if len(failures) == len(adapters) {
		return nil, &AllSourcesFailedError{Errors: failures}
	}
	for name, err := range failures {
		a.logger.Warnf("source %s excluded from results: %v", name, err)
	}

	filtered := applyFilters(merged, spec)
	sortMatches(filtered)
	deduped := dedupe(filtered)

	return Paginate(deduped, spec.Page, spec.PerPage), nil
}

// activeAdapters resolves the spec's checked sources against the
// registry. No checked sources means every registered source, so an
// unfiltered form submission searches everything.
func (a *Aggregator) activeAdapters(spec *query.FilterSpec) map[string]core.SourceAdapter {
	all := a.registry.GetAllSources()
	if len(spec.Sources) == 0 {
		return all
	}

	active := make(map[string]core.SourceAdapter, len(spec.Sources))
	for _, name := range spec.Sources {
		if adapter, ok := all[name]; ok {
			active[name] = adapter
		} else {
			a.logger.Warnf("ignoring unknown source filter %q", name)
		}
	}
	return active
}

// fanOut queries every adapter concurrently under a shared deadline.
// Request latency is bounded by the timeout, not by the slowest single
// source: an adapter still outstanding when the deadline elapses is
// recorded as failed with the context error and contributes nothing,
// even if it ignores cancellation and answers later.
func (a *Aggregator) fanOut(ctx context.Context, adapters map[string]core.SourceAdapter, term string) ([]core.Match, map[string]error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// The channel is buffered to the adapter count so a late goroutine
	// can always deliver without blocking after the merge has moved on.
	results := make(chan sourceResult, len(adapters))
	var wg sync.WaitGroup
	for name, adapter := range adapters {
		wg.Add(1)
		go func(name string, adapter core.SourceAdapter) {
			defer wg.Done()
			matches, err := adapter.Search(ctx, term)
			results <- sourceResult{name: name, matches: matches, err: err}
		}(name, adapter)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	var merged []core.Match
	failures := make(map[string]error)
	answered := make(map[string]bool, len(adapters))
drain:
	for {
		select {
		case res := <-results:
			answered[res.name] = true
			if res.err != nil {
				failures[res.name] = res.err
				continue
			}
			for _, m := range res.matches {
				m.Source = res.name
				merged = append(merged, m)
			}
		default:
			break drain
		}
	}

	for name := range adapters {
		if !answered[name] {
			failures[name] = ctx.Err()
		}
	}
	return merged, failures
}

// applyFilters keeps matches that pass the author filter (OR across
// the list, case-insensitive; empty list is unconstrained) and fall
// inside the inclusive date range on whichever bounds are present.
func applyFilters(matches []core.Match, spec *query.FilterSpec) []core.Match {
	filtered := matches[:0]
	for _, m := range matches {
		if !authorMatches(m.Author, spec.Authors) {
			continue
		}
		if spec.DateStart != nil && m.Timestamp.Before(*spec.DateStart) {
			continue
		}
		if spec.DateEnd != nil && m.Timestamp.After(*spec.DateEnd) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

func authorMatches(author string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, want := range filter {
		if strings.EqualFold(author, want) {
			return true
		}
	}
	return false
}

// sortMatches orders by descending relevance, ties broken by most
// recent timestamp, then source name, then title. The total order is
// what keeps pagination stable across repeated requests over unchanged
// data.
func sortMatches(matches []core.Match) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Title < b.Title
	})
}

// dedupe drops repeated (source, href) pairs, keeping the first
// occurrence of the sorted sequence.
func dedupe(matches []core.Match) []core.Match {
	type key struct {
		source string
		href   string
	}
	seen := make(map[key]bool, len(matches))
	deduped := matches[:0]
	for _, m := range matches {
		k := key{source: m.Source, href: m.Href}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, m)
	}
	return deduped
}
