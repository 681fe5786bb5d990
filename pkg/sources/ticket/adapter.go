// Package ticket provides the source adapter for issue-tracker
// tickets. Tickets are indexed into a local FTS store through the
// upsert path and queried with bm25 ranking.
package ticket

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/storage"
)

func init() {
	prototype := &Adapter{}
	core.RegisterSourcePrototype("ticket", prototype)
}

// Config configures one ticket source instance.
type Config struct {
	// BaseURL is the tracker root used to build ticket links when a
	// stored document has no explicit URL, e.g. "https://dev.example.com".
	BaseURL string `toml:"base_url"`

	// StorageDir is where the index database lives. Normally injected
	// from the application-level storage_dir setting.
	StorageDir string `toml:"storage_dir,omitempty"`

	// MaxResults caps how many candidates one query may contribute to
	// the merge.
	MaxResults int `toml:"max_results"`
}

func (c *Config) Validate() error {
	if c.MaxResults <= 0 {
		c.MaxResults = 200
	}
	if c.MaxResults > 1000 {
		c.MaxResults = 1000
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

// SetStorageDir fills in the storage directory when the source config
// does not override it.
func (c *Config) SetStorageDir(dir string) {
	if c.StorageDir == "" {
		c.StorageDir = dir
	}
}

// Adapter searches the local ticket index.
type Adapter struct {
	config       *Config
	store        *storage.Store
	instanceName string
}

func NewAdapter(instanceName string, config interface{}) (core.SourceAdapter, error) {
	var cfg *Config
	if config == nil {
		cfg = &Config{}
	} else {
		var ok bool
		cfg, ok = config.(*Config)
		if !ok {
			return nil, fmt.Errorf("invalid config type for ticket source")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.StorageDir == "" {
		return nil, fmt.Errorf("ticket source %s: storage_dir not configured", instanceName)
	}

	store, err := storage.NewStore(filepath.Join(cfg.StorageDir, instanceName+".db"), instanceName)
	if err != nil {
		return nil, fmt.Errorf("opening ticket index for %s: %w", instanceName, err)
	}

	return &Adapter{
		config:       cfg,
		store:        store,
		instanceName: instanceName,
	}, nil
}

func (a *Adapter) Type() string {
	return "ticket"
}

func (a *Adapter) Name() string {
	return a.instanceName
}

func (a *Adapter) Search(ctx context.Context, term string) ([]core.Match, error) {
	docs, err := a.store.Search(ctx, term, a.config.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("searching tickets: %w", err)
	}

	matches := make([]core.Match, 0, len(docs))
	for _, doc := range docs {
		matches = append(matches, core.Match{
			Title:     fmt.Sprintf("#%s: %s", doc.ID, doc.Title),
			Href:      a.href(doc.Document),
			Summary:   doc.Summary,
			Author:    doc.Author,
			Timestamp: doc.CreatedAt,
			Relevance: doc.Relevance,
		})
	}
	return matches, nil
}

func (a *Adapter) href(doc core.Document) string {
	if doc.URL != "" {
		return doc.URL
	}
	return fmt.Sprintf("%s/ticket/%s", a.config.BaseURL, doc.ID)
}

// Upsert indexes a ticket document, replacing any previous version.
func (a *Adapter) Upsert(ctx context.Context, doc core.Document) error {
	return a.store.Upsert(ctx, doc)
}

// Delete unindexes a ticket, for when it is deleted in the tracker.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	return a.store.Delete(ctx, id)
}

// Stats reports index statistics.
func (a *Adapter) Stats() (map[string]interface{}, error) {
	return a.store.Stats()
}

func (a *Adapter) ConfigType() interface{} {
	return &Config{}
}

func (a *Adapter) SetConfig(config interface{}) error {
	if cfg, ok := config.(*Config); ok {
		if err := cfg.Validate(); err != nil {
			return err
		}
		a.config = cfg
		return nil
	}
	return fmt.Errorf("invalid config type for ticket source")
}

func (a *Adapter) GetConfig() interface{} {
	return a.config
}

func (a *Adapter) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *Adapter) Factory(instanceName string, config interface{}) (core.SourceAdapter, error) {
	return NewAdapter(instanceName, config)
}
