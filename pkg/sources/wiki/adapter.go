// Package wiki provides the source adapter for wiki pages.
package wiki

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/storage"
)

func init() {
	prototype := &Adapter{}
	core.RegisterSourcePrototype("wiki", prototype)
}

type Config struct {
	// BaseURL is the tracker root used to build page links, e.g.
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

// Adapter searches the local wiki page index. Document IDs are page
// names; links are built as <base_url>/wiki/<page name>.
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
			return nil, fmt.Errorf("invalid config type for wiki source")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.StorageDir == "" {
		return nil, fmt.Errorf("wiki source %s: storage_dir not configured", instanceName)
	}

	store, err := storage.NewStore(filepath.Join(cfg.StorageDir, instanceName+".db"), instanceName)
	if err != nil {
		return nil, fmt.Errorf("opening wiki index for %s: %w", instanceName, err)
	}

	return &Adapter{
		config:       cfg,
		store:        store,
		instanceName: instanceName,
	}, nil
}

func (a *Adapter) Type() string {
	return "wiki"
}

func (a *Adapter) Name() string {
	return a.instanceName
}

func (a *Adapter) Search(ctx context.Context, term string) ([]core.Match, error) {
	docs, err := a.store.Search(ctx, term, a.config.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("searching wiki pages: %w", err)
	}

	matches := make([]core.Match, 0, len(docs))
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.ID
		}
		matches = append(matches, core.Match{
			Title:     title,
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
	return fmt.Sprintf("%s/wiki/%s", a.config.BaseURL, url.PathEscape(doc.ID))
}

func (a *Adapter) Upsert(ctx context.Context, doc core.Document) error {
	return a.store.Upsert(ctx, doc)
}

// Delete unindexes a page. A rename is a Delete of the old name
// followed by an Upsert under the new one.
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
	return fmt.Errorf("invalid config type for wiki source")
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
