// Package storage persists source documents in per-source SQLite
// databases with an FTS5 index. Each source adapter owns one Store;
// full-text matches are ranked with bm25 and surfaced to the
// aggregation layer as relevance scores.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/forgeapps/advsearch/pkg/core"
)

// Store is one source's document index backed by a single SQLite file.
type Store struct {
	db         *sql.DB
	sourceName string
}

// ScoredDocument is a stored document together with the bm25-derived
// relevance of the current query. Higher is more relevant; recency
// scans carry a relevance of zero.
type ScoredDocument struct {
	core.Document
	Relevance float64
}

// NewStore opens (creating if needed) the document database at dbPath.
func NewStore(dbPath, sourceName string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Apply performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	store := &Store{
		db:         db,
		sourceName: sourceName,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initializing schema for %s: %w", sourceName, err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS docs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS docs_fts USING fts5(title, summary, author)`,
		`CREATE INDEX IF NOT EXISTS idx_docs_created_at ON docs(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SourceName returns the source this store belongs to.
func (s *Store) SourceName() string {
	return s.sourceName
}

// Upsert inserts the document, replacing any previous document with
// the same ID.
func (s *Store) Upsert(ctx context.Context, doc core.Document) error {
	return s.UpsertBatch(ctx, []core.Document{doc})
}

// UpsertBatch inserts the documents in one transaction, keeping the
// FTS mirror in sync with the docs table.
func (s *Store) UpsertBatch(ctx context.Context, docs []core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				fmt.Printf("Warning: failed to rollback transaction: %v\n", err)
			}
		}
	}()

	// INSERT OR REPLACE assigns a fresh rowid, so the previous FTS row
	// must go first or it would be orphaned in the index.
	staleStmt, err := tx.PrepareContext(ctx, `
		DELETE FROM docs_fts WHERE rowid = (SELECT rowid FROM docs WHERE id = ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing stale FTS cleanup: %w", err)
	}
	defer func() {
		if err := staleStmt.Close(); err != nil {
			fmt.Printf("Warning: failed to close statement: %v\n", err)
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO docs (id, title, url, summary, author, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			fmt.Printf("Warning: failed to close statement: %v\n", err)
		}
	}()

	ftsStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO docs_fts (rowid, title, summary, author)
		VALUES ((SELECT rowid FROM docs WHERE id = ?), ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing FTS statement: %w", err)
	}
	defer func() {
		if err := ftsStmt.Close(); err != nil {
			fmt.Printf("Warning: failed to close FTS statement: %v\n", err)
		}
	}()

	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document with empty id in source %s", s.sourceName)
		}

		_, err = staleStmt.ExecContext(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("removing stale FTS entry for %s: %w", doc.ID, err)
		}

		_, err = stmt.ExecContext(ctx, doc.ID, doc.Title, doc.URL, doc.Summary, doc.Author, doc.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting document %s: %w", doc.ID, err)
		}

		_, err = ftsStmt.ExecContext(ctx, doc.ID, doc.Title, doc.Summary, doc.Author)
		if err != nil {
			return fmt.Errorf("inserting document %s into FTS: %w", doc.ID, err)
		}
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// Delete removes the document and its FTS entry. Deleting an ID that
// is not in the index is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("empty document id in source %s", s.sourceName)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				fmt.Printf("Warning: failed to rollback transaction: %v\n", err)
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM docs_fts WHERE rowid = (SELECT rowid FROM docs WHERE id = ?)
	`, id)
	if err != nil {
		return fmt.Errorf("deleting FTS entry for %s: %w", id, err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM docs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// Search returns documents matching the term ranked by bm25, best
// first. An empty term returns the most recent documents instead, so
// filter-only searches still have candidates to work with.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]ScoredDocument, error) {
	var sqlQuery string
	var args []interface{}

	if term != "" {
		// The term is bound with MATCH ?, so SQLite's parameter
		// binding already prevents injection while keeping full FTS5
		// query syntax available.
		sqlQuery = `
			SELECT d.id, d.title, d.url, d.summary, d.author, d.created_at, bm25(docs_fts)
			FROM docs d
			JOIN docs_fts fts ON d.rowid = fts.rowid
			WHERE docs_fts MATCH ?
			ORDER BY bm25(docs_fts), d.created_at DESC
			LIMIT ?`
		args = []interface{}{term, limit}
	} else {
		sqlQuery = `
			SELECT id, title, url, summary, author, created_at, 0.0
			FROM docs
			ORDER BY created_at DESC
			LIMIT ?`
		args = []interface{}{limit}
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	var docs []ScoredDocument
	for rows.Next() {
		var doc ScoredDocument
		var rank float64
		var createdAt time.Time

		err = rows.Scan(&doc.ID, &doc.Title, &doc.URL, &doc.Summary, &doc.Author, &createdAt, &rank)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		doc.CreatedAt = createdAt
		// bm25 ranks better matches lower (more negative); flip the
		// sign so the aggregation layer can treat higher as better.
		doc.Relevance = -rank
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Count returns the number of stored documents.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM docs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Stats reports index statistics for the stats surfaces.
func (s *Store) Stats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	totalDocs, err := s.Count()
	if err != nil {
		return nil, err
	}
	stats["total_documents"] = totalDocs

	var oldestStr, newestStr sql.NullString
	err = s.db.QueryRow("SELECT MIN(created_at), MAX(created_at) FROM docs").Scan(&oldestStr, &newestStr)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("getting document date range: %w", err)
	}

	if oldestStr.Valid && newestStr.Valid {
		oldest, err := time.Parse(time.RFC3339, oldestStr.String)
		if err == nil {
			stats["oldest_document"] = oldest
		}
		newest, err := time.Parse(time.RFC3339, newestStr.String)
		if err == nil {
			stats["newest_document"] = newest
		}
	}

	return stats, nil
}

// Optimize runs SQLite maintenance, useful after bulk indexing.
func (s *Store) Optimize() error {
	_, err := s.db.Exec("PRAGMA optimize")
	return err
}
