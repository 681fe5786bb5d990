package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/forgeapps/advsearch/pkg/config"
	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/query"
	"github.com/forgeapps/advsearch/pkg/search"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run an advanced search from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Free-text search query",
			},
			&cli.StringSliceFlag{
				Name:  "source",
				Usage: "Restrict to specific source(s). Can be used multiple times",
			},
			&cli.StringSliceFlag{
				Name:  "author",
				Usage: "Filter by author. Can be used multiple times (matches any)",
			},
			&cli.StringFlag{
				Name:  "date-start",
				Usage: "Earliest result date, format \"2006-01-02 15:04:05\"",
			},
			&cli.StringFlag{
				Name:  "date-end",
				Usage: "Latest result date, format \"2006-01-02 15:04:05\"",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "per-page",
				Usage: "Results per page (10, 25, 50 or 100)",
				Value: query.DefaultPerPage,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyGlobalFlags(c)
			return runSearch(ctx, c)
		},
	}
}

func runSearch(ctx context.Context, c *cli.Command) error {
	cfg, err := config.LoadConfig(c.String("config"))
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

	// The CLI goes through the same form-field contract as the HTTP
	// surface so both parse and validate identically.
	form := url.Values{}
	if q := c.String("query"); q != "" {
		form.Set("q", q)
	}
	for _, name := range c.StringSlice("source") {
		form.Set(name, "on")
	}
	for _, author := range c.StringSlice("author") {
		form.Add("author", author)
	}
	if v := c.String("date-start"); v != "" {
		form.Set("date_start", v)
	}
	if v := c.String("date-end"); v != "" {
		form.Set("date_end", v)
	}
	form.Set("page", strconv.Itoa(c.Int("page")))
	form.Set("per_page", strconv.Itoa(c.Int("per-page")))

	parser := query.NewParser(registry.ListSources())
	spec, err := parser.Parse(form)
	if err != nil {
		return err
	}

	aggregator := search.NewAggregator(registry, cfg.SearchTimeout.Duration)
	view, err := aggregator.Search(ctx, spec)
	if err != nil {
		return err
	}

	printResultView(spec, view)
	return nil
}
