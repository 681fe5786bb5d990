package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/forgeapps/advsearch/pkg/config"
	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/log"
)

// IndexCommand creates the index command
func IndexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Upsert documents into a source index, or remove them with --delete",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Usage:    "Source to index into",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "JSON lines file to read documents from (default: stdin)",
			},
			&cli.BoolFlag{
				Name:  "delete",
				Usage: "Remove documents instead of indexing them; input lines are document IDs",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyGlobalFlags(c)
			return runIndex(ctx, c)
		},
	}
}

// indexRecord is the wire form of one document on the indexing input.
// Timestamps accept RFC 3339 or the search form's date layout.
type indexRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

func runIndex(ctx context.Context, c *cli.Command) error {
	logger := log.ForService("index")

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
			logger.Warnf("closing registry: %v", err)
		}
	}()

	sourceName := c.String("source")
	adapter, err := registry.GetSource(sourceName)
	if err != nil {
		return err
	}

	var input io.Reader = os.Stdin
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer f.Close()
		input = f
	}

	if c.Bool("delete") {
		deleter, ok := adapter.(core.Deleter)
		if !ok {
			return fmt.Errorf("source %s does not support unindexing", sourceName)
		}
		count, err := deleteDocuments(ctx, deleter, input)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d documents from %s\n", count, sourceName)
		return nil
	}

	upserter, ok := adapter.(core.Upserter)
	if !ok {
		return fmt.Errorf("source %s does not support indexing", sourceName)
	}

	count, err := indexDocuments(ctx, upserter, input, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d documents into %s\n", count, sourceName)
	return nil
}

// deleteDocuments removes one document per input line, each line a
// bare document ID.
func deleteDocuments(ctx context.Context, deleter core.Deleter, input io.Reader) (int, error) {
	scanner := bufio.NewScanner(input)

	count := 0
	line := 0
	for scanner.Scan() {
		line++
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		if err := deleter.Delete(ctx, id); err != nil {
			return count, fmt.Errorf("line %d: removing %s: %w", line, id, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("reading input: %w", err)
	}

	return count, nil
}

func indexDocuments(ctx context.Context, upserter core.Upserter, input io.Reader, logger *log.Logger) (int, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec indexRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return count, fmt.Errorf("line %d: parsing document: %w", line, err)
		}
		if rec.ID == "" {
			return count, fmt.Errorf("line %d: document has no id", line)
		}

		doc := core.Document{
			ID:      rec.ID,
			Title:   rec.Title,
			URL:     rec.URL,
			Summary: rec.Summary,
			Author:  rec.Author,
		}
		if rec.CreatedAt != "" {
			ts, err := parseDocumentTime(rec.CreatedAt)
			if err != nil {
				return count, fmt.Errorf("line %d: parsing created_at: %w", line, err)
			}
			doc.CreatedAt = ts
		} else {
			doc.CreatedAt = time.Now().UTC()
		}

		if err := upserter.Upsert(ctx, doc); err != nil {
			return count, fmt.Errorf("line %d: upserting %s: %w", line, doc.ID, err)
		}

		count++
		if count%500 == 0 {
			logger.Infof("indexed %d documents", count)
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("reading input: %w", err)
	}

	return count, nil
}

func parseDocumentTime(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
