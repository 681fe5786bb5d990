// Package changeset provides the source adapter for version-control
// changesets. Document IDs are revision identifiers; the commit
// message's first line becomes the title.
package changeset

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
	core.RegisterSourcePrototype("changeset", prototype)
}

type Config struct {
	// BaseURL is the tracker root used to build changeset links, e.g.
	// "https://dev.example.com".
	BaseURL string `toml:"base_url"`

	StorageDir string `toml:"storage_dir,omitempty"`
	MaxResults int    `toml:"max_results"`
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

func (c *Config) SetStorageDir(dir string) {
	if c.StorageDir == "" {
		c.StorageDir = dir
	}
}

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
			return nil, fmt.Errorf("invalid config type for changeset source")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.StorageDir == "" {
		return nil, fmt.Errorf("changeset source %s: storage_dir not configured", instanceName)
	}

	store, err := storage.NewStore(filepath.Join(cfg.StorageDir, instanceName+".db"), instanceName)
	if err != nil {
		return nil, fmt.Errorf("opening changeset index for %s: %w", instanceName, err)
	}

	return &Adapter{
		config:       cfg,
		store:        store,
		instanceName: instanceName,
	}, nil
}

func (a *Adapter) Type() string {
	return "changeset"
}

func (a *Adapter) Name() string {
	return a.instanceName
}

func (a *Adapter) Search(ctx context.Context, term string) ([]core.Match, error) {
	docs, err := a.store.Search(ctx, term, a.config.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("searching changesets: %w", err)
	}

	matches := make([]core.Match, 0, len(docs))
	for _, doc := range docs {
		matches = append(matches, core.Match{
			Title:     fmt.Sprintf("[%s] %s", shortRev(doc.ID), firstLine(doc.Title)),
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
	return fmt.Sprintf("%s/changeset/%s", a.config.BaseURL, doc.ID)
}

func shortRev(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		return message[:idx]
	}
	return message
}

func (a *Adapter) Upsert(ctx context.Context, doc core.Document) error {
	return a.store.Upsert(ctx, doc)
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	return a.store.Delete(ctx, id)
}

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
	return fmt.Errorf("invalid config type for changeset source")
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
