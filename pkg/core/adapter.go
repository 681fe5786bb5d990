package core

import (
	"context"
)

// SourceAdapter wraps one searchable content source (tickets, wiki
// pages, changesets) behind a uniform query capability. The aggregator
// only ever talks to sources through this interface; it never inspects
// the concrete type to decide how to query a source.
//
// Adapters are self-contained units that:
// - Know how to query their specific index (local FTS database, remote API, ...)
// - Manage their own configuration and lifecycle
// - Report failures locally; a failing adapter never aborts its siblings
//
// Type vs Name: Type is the adapter category (e.g. "ticket"), Name is
// the configured instance (e.g. "tickets" or "legacy_tickets"). The
// instance name is what appears as the [source] tag in results and as
// the checkbox field in the search form.
//
// Registration pattern:
//
//	func init() {
//		core.RegisterSourcePrototype("ticket", &Adapter{})
//	}
type SourceAdapter interface {
	// Type returns the adapter type identifier, a constant string used
	// for factory registration and configuration matching.
	Type() string

	// Name returns the unique instance name for this adapter.
	Name() string

	// Search returns candidate matches for the given term, ordered by
	// the source's own notion of relevance. An empty term asks for the
	// most recent documents, so that filter-only submissions still
	// produce results. Implementations must honor ctx cancellation;
	// the aggregator bounds every request with a deadline.
	Search(ctx context.Context, term string) ([]Match, error)

	// ConfigType returns a pointer to an empty configuration struct.
	// The returned type is what SetConfig expects.
	ConfigType() interface{}

	// SetConfig updates the adapter configuration. Should validate the
	// config and return an error if invalid.
	SetConfig(config interface{}) error

	// GetConfig returns the current configuration.
	GetConfig() interface{}

	// Close releases any resources held by the adapter (database
	// handles, HTTP connections). Called during process shutdown.
	Close() error

	// Factory creates a fully initialized instance of this adapter
	// type. Called by the registry when building the source set from
	// configuration at startup.
	Factory(instanceName string, config interface{}) (SourceAdapter, error)
}

// Upserter is implemented by adapters that own a local index and can
// accept documents for indexing. The index command and any ingestion
// pipeline feed sources through this interface.
type Upserter interface {
	// Upsert inserts the document into the source index, replacing any
	// previous document with the same ID.
	Upsert(ctx context.Context, doc Document) error
}

// Deleter is implemented by adapters whose index entries can be
// removed when the underlying content goes away (a deleted ticket, a
// removed or renamed wiki page). Deleting an unknown ID is a no-op.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// StatsProvider is implemented by adapters that can report statistics
// about their index (document counts, date ranges).
type StatsProvider interface {
	Stats() (map[string]interface{}, error)
}
