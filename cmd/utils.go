package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/forgeapps/advsearch/pkg/config"
	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/log"
)

// applyGlobalFlags wires the top-level CLI flags into process state.
func applyGlobalFlags(c *cli.Command) {
	if c.Bool("debug") {
		log.SetGlobalDebug(true)
	}
}

// createSourcesFromConfig builds the configured source instances. This
// happens exactly once per process; afterwards the registry is
// read-only.
func createSourcesFromConfig(registry *core.Registry, cfg *config.Config) error {
	for name := range cfg.Sources {
		srcType, rawConfig, err := cfg.GetSourceConfig(name)
		if err != nil {
			return fmt.Errorf("getting config for source %s: %w", name, err)
		}

		srcConfig, err := convertRawConfigToType(registry, srcType, rawConfig)
		if err != nil {
			return fmt.Errorf("converting config for source %s: %w", name, err)
		}

		// Sources default to the application storage directory unless
		// their own config overrides it.
		if dirSetter, ok := srcConfig.(interface{ SetStorageDir(string) }); ok {
			dirSetter.SetStorageDir(cfg.StorageDir)
		}

		if err := registry.CreateSource(name, srcType, srcConfig); err != nil {
			return fmt.Errorf("creating source %s: %w", name, err)
		}
	}

	return nil
}

// convertRawConfigToType converts the raw toml table into the adapter's
// expected config type by marshaling through toml.
func convertRawConfigToType(registry *core.Registry, srcType string, rawConfig interface{}) (interface{}, error) {
	configType, err := registry.PrototypeConfigType(srcType)
	if err != nil {
		return nil, err
	}

	if rawConfig == nil {
		return configType, nil
	}

	configData, err := toml.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("marshaling config data: %w", err)
	}

	if err := toml.Unmarshal(configData, configType); err != nil {
		return nil, fmt.Errorf("unmarshaling source config: %w", err)
	}

	return configType, nil
}
