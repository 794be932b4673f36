// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists completed briefs in a local SQLite database so a
// repeated run for the same paper reuses its results instead of re-querying
// the scholar, search, and LLM APIs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/author-brief/pkg/types"
)

const dbFile = "briefs.db"

// Summary kinds stored per run.
const (
	KindScholar = "scholar"
	KindFinal   = "final"
	KindHTML    = "html"
	KindWeb     = "web"
)

// Store manages the brief cache SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at dir/briefs.db and creates
// the schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			key TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			paper TEXT NOT NULL,
			citation_count INTEGER,
			removed_authors TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_key TEXT NOT NULL REFERENCES runs(key) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			citation_count INTEGER,
			h_index INTEGER,
			profile TEXT NOT NULL,
			web_results TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_run_key ON authors(run_key)`,
		`CREATE TABLE IF NOT EXISTS summaries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_key TEXT NOT NULL REFERENCES runs(key) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			UNIQUE(run_key, kind, author)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_run_key ON summaries(run_key)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over summary text, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='summaries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE summaries_fts USING fts5(content, content=summaries, content_rowid=rowid)`,
			`CREATE TRIGGER summaries_ai AFTER INSERT ON summaries BEGIN
				INSERT INTO summaries_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER summaries_ad AFTER DELETE ON summaries BEGIN
				INSERT INTO summaries_fts(summaries_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER summaries_au AFTER UPDATE ON summaries BEGIN
				INSERT INTO summaries_fts(summaries_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO summaries_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// RunKey normalizes a paper title into the cache key: lowercased,
// punctuation stripped, whitespace collapsed.
func RunKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SaveRun stores a completed brief, replacing any previous run for the
// same normalized title.
func (s *Store) SaveRun(ctx context.Context, brief *types.Brief) error {
	key := RunKey(brief.Paper.Title)
	if key == "" {
		return fmt.Errorf("cannot cache a brief with an empty title")
	}

	paperJSON, err := json.Marshal(brief.Paper)
	if err != nil {
		return fmt.Errorf("marshaling paper: %w", err)
	}
	removedJSON, err := json.Marshal(brief.RemovedAuthors)
	if err != nil {
		return fmt.Errorf("marshaling removed authors: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace wholesale; cascade clears authors and summaries.
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clearing previous run: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (key, title, paper, citation_count, removed_authors, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key, brief.Paper.Title, string(paperJSON), brief.Paper.CitationCount,
		string(removedJSON), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i, ar := range brief.Authors {
		profileJSON, err := json.Marshal(ar.Author)
		if err != nil {
			return fmt.Errorf("marshaling profile for %s: %w", ar.Author.Name, err)
		}
		resultsJSON, err := json.Marshal(ar.WebResults)
		if err != nil {
			return fmt.Errorf("marshaling web results for %s: %w", ar.Author.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO authors (run_key, position, name, citation_count, h_index, profile, web_results)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			key, i, ar.Author.Name, ar.Author.CitationCount, ar.Author.HIndex,
			string(profileJSON), string(resultsJSON),
		); err != nil {
			return fmt.Errorf("inserting author %s: %w", ar.Author.Name, err)
		}
		if ar.WebSummary != "" {
			if err := insertSummary(ctx, tx, key, KindWeb, ar.Author.Name, ar.WebSummary); err != nil {
				return err
			}
		}
	}

	for kind, content := range map[string]string{
		KindScholar: brief.ScholarSummary,
		KindFinal:   brief.Text,
		KindHTML:    brief.HTML,
	} {
		if content == "" {
			continue
		}
		if err := insertSummary(ctx, tx, key, kind, "", content); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertSummary(ctx context.Context, tx *sql.Tx, key, kind, author, content string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO summaries (run_key, kind, author, content) VALUES (?, ?, ?, ?)`,
		key, kind, author, content,
	); err != nil {
		return fmt.Errorf("inserting %s summary: %w", kind, err)
	}
	return nil
}

// LoadRun returns the cached brief for a paper title, or nil when no run
// is stored for it.
func (s *Store) LoadRun(ctx context.Context, title string) (*types.Brief, error) {
	key := RunKey(title)

	var paperJSON, removedJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT paper, removed_authors FROM runs WHERE key = ?`, key,
	).Scan(&paperJSON, &removedJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	brief := &types.Brief{FromCache: true}
	if err := json.Unmarshal([]byte(paperJSON), &brief.Paper); err != nil {
		return nil, fmt.Errorf("parsing cached paper: %w", err)
	}
	if err := json.Unmarshal([]byte(removedJSON), &brief.RemovedAuthors); err != nil {
		return nil, fmt.Errorf("parsing cached removed authors: %w", err)
	}

	webSummaries, err := s.loadSummaries(ctx, key, brief)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, profile, web_results FROM authors WHERE run_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, profileJSON, resultsJSON string
		if err := rows.Scan(&name, &profileJSON, &resultsJSON); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		var ar types.AuthorResult
		if err := json.Unmarshal([]byte(profileJSON), &ar.Author); err != nil {
			return nil, fmt.Errorf("parsing cached profile for %s: %w", name, err)
		}
		if resultsJSON != "" {
			if err := json.Unmarshal([]byte(resultsJSON), &ar.WebResults); err != nil {
				return nil, fmt.Errorf("parsing cached web results for %s: %w", name, err)
			}
		}
		ar.WebSummary = webSummaries[name]
		brief.Authors = append(brief.Authors, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating authors: %w", err)
	}

	return brief, nil
}

// loadSummaries fills the run-level summaries on brief and returns the
// per-author web summaries keyed by author name.
func (s *Store) loadSummaries(ctx context.Context, key string, brief *types.Brief) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, author, content FROM summaries WHERE run_key = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("querying summaries: %w", err)
	}
	defer rows.Close()

	web := make(map[string]string)
	for rows.Next() {
		var kind, author, content string
		if err := rows.Scan(&kind, &author, &content); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		switch kind {
		case KindScholar:
			brief.ScholarSummary = content
		case KindFinal:
			brief.Text = content
		case KindHTML:
			brief.HTML = content
		case KindWeb:
			web[author] = content
		}
	}
	return web, rows.Err()
}

// DeleteRun removes the cached run for a paper title. Missing runs are not
// an error.
func (s *Store) DeleteRun(ctx context.Context, title string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE key = ?`, RunKey(title))
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

// Clear removes every cached run.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
