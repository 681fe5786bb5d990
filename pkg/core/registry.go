package core

import (
	"fmt"
	"sort"
	"sync"
)

// Global registry for source adapter self-registration
var globalRegistry = &Registry{
	prototypes: make(map[string]SourceAdapter),
	sources:    make(map[string]SourceAdapter),
}

// Registry holds adapter prototypes (one per type) and configured
// adapter instances (one per source name). Instances are created once
// at startup from configuration; after that the registry is treated as
// read-only for the process lifetime.
type Registry struct {
	prototypes map[string]SourceAdapter
	sources    map[string]SourceAdapter
	mu         sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		prototypes: make(map[string]SourceAdapter),
		sources:    make(map[string]SourceAdapter),
	}
}

// RegisterSourcePrototype allows adapter packages to register themselves during init()
func RegisterSourcePrototype(name string, prototype SourceAdapter) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.prototypes[name] = prototype
}

// GetGlobalRegistry returns a registry seeded with all self-registered prototypes.
func GetGlobalRegistry() *Registry {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	registry := NewRegistry()
	for name, prototype := range globalRegistry.prototypes {
		registry.prototypes[name] = prototype
	}
	return registry
}

func (r *Registry) RegisterPrototype(name string, prototype SourceAdapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.prototypes[name]; exists {
		return fmt.Errorf("source prototype %s already registered", name)
	}

	r.prototypes[name] = prototype
	return nil
}

// CreateSource instantiates a configured source through the prototype
// registered for factoryType. The config is validated first when it
// implements Validate().
func (r *Registry) CreateSource(instanceName string, factoryType string, config interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prototype, exists := r.prototypes[factoryType]
	if !exists {
		return fmt.Errorf("source prototype %s not found", factoryType)
	}

	if validator, ok := config.(interface{ Validate() error }); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("invalid config for source %s: %w", instanceName, err)
		}
	}

	adapter, err := prototype.Factory(instanceName, config)
	if err != nil {
		return fmt.Errorf("creating source %s: %w", instanceName, err)
	}

	if existing, exists := r.sources[instanceName]; exists {
		if err := existing.Close(); err != nil {
			return fmt.Errorf("closing existing source %s: %w", instanceName, err)
		}
	}

	r.sources[instanceName] = adapter
	return nil
}

// PrototypeConfigType returns an empty config struct for the given
// adapter type, ready to be filled from configuration.
func (r *Registry) PrototypeConfigType(factoryType string) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prototype, exists := r.prototypes[factoryType]
	if !exists {
		return nil, fmt.Errorf("source prototype %s not found", factoryType)
	}
	return prototype.ConfigType(), nil
}

func (r *Registry) GetSource(name string) (SourceAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.sources[name]
	if !exists {
		return nil, fmt.Errorf("source %s not found", name)
	}

	return adapter, nil
}

func (r *Registry) GetAllSources() map[string]SourceAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]SourceAdapter)
	for name, adapter := range r.sources {
		result[name] = adapter
	}
	return result
}

// ListSources returns the configured source names in lexical order.
// The stable order matters: it is the order the search form presents
// the checkboxes in and the order the aggregator fans out.
func (r *Registry) ListSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, adapter := range r.sources {
		if err := adapter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing source %s: %w", name, err))
		}
	}

	r.sources = make(map[string]SourceAdapter)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing sources: %v", errs)
	}

	return nil
}
