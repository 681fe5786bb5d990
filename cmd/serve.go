package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/forgeapps/advsearch/pkg/api"
	"github.com/forgeapps/advsearch/pkg/config"
	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/log"
	"github.com/forgeapps/advsearch/pkg/query"
	"github.com/forgeapps/advsearch/pkg/search"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Listen address (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyGlobalFlags(c)
			return serve(ctx, c.String("config"), c.String("listen"))
		},
	}
}

func serve(ctx context.Context, configPath, listenOverride string) error {
	logger := log.ForService("serve")

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
			logger.Warnf("closing registry: %v", err)
		}
	}()

	sourceNames := registry.ListSources()
	if len(sourceNames) == 0 {
		return fmt.Errorf("no sources configured; run 'advsearch init' and edit the config")
	}
	logger.Infof("serving %d sources: %v", len(sourceNames), sourceNames)

	parser := query.NewParser(sourceNames)
	aggregator := search.NewAggregator(registry, cfg.SearchTimeout.Duration)
	server := api.NewServer(registry, aggregator, parser)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	listenAddr := cfg.ListenAddr
	if listenOverride != "" {
		listenAddr = listenOverride
	}

	httpServer := &http.Server{
		Addr:         listenAddr,
		Handler:      api.CorsMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		logger.Infof("received signal %v, shutting down", sig)
	case <-ctx.Done():
		logger.Infof("context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return nil
}
