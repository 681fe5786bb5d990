package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/forgeapps/advsearch/pkg/config"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a template configuration file",
		Action: func(ctx context.Context, c *cli.Command) error {
			applyGlobalFlags(c)
			return initConfig(c.String("config"))
		},
	}
}

func initConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return fmt.Errorf("building default config: %w", err)
	}

	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configPath)
	fmt.Println("Edit it to configure your sources, then run 'advsearch serve'.")
	return nil
}
