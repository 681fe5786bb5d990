package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/forgeapps/advsearch/pkg/config"
	"github.com/forgeapps/advsearch/pkg/core"
)

// SourcesCommand creates the sources command
func SourcesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "List configured sources",
		Action: func(ctx context.Context, c *cli.Command) error {
			applyGlobalFlags(c)
			return listSources(c.String("config"))
		},
	}
}

func listSources(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry := core.GetGlobalRegistry()

	if err := createSourcesFromConfig(registry, cfg); err != nil {
		return fmt.Errorf("creating sources: %w", err)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			fmt.Printf("Warning: failed to close registry: %v\n", err)
		}
	}()

	names := registry.ListSources()
	if len(names) == 0 {
		fmt.Println("No sources configured.")
		return nil
	}

	fmt.Printf("Configured sources (%d):\n\n", len(names))
	for _, name := range names {
		adapter, err := registry.GetSource(name)
		if err != nil {
			return err
		}

		fmt.Printf("  %s (%s)\n", name, adapter.Type())
		if provider, ok := adapter.(core.StatsProvider); ok {
			stats, err := provider.Stats()
			if err != nil {
				fmt.Printf("    stats unavailable: %v\n", err)
				continue
			}
			if count, ok := stats["total_documents"]; ok {
				fmt.Printf("    documents: %v\n", count)
			}
		}
	}

	return nil
}
