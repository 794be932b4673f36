// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"
)

// RunInfo describes one cached run for listings.
type RunInfo struct {
	Key           string    `json:"key" yaml:"key"`
	Title         string    `json:"title" yaml:"title"`
	CitationCount int       `json:"citation_count" yaml:"citation_count"`
	Authors       int       `json:"authors" yaml:"authors"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// ListRuns returns every cached run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.key, r.title, r.citation_count, r.created_at,
		        (SELECT count(*) FROM authors a WHERE a.run_key = r.key)
		 FROM runs r ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var createdAt string
		if err := rows.Scan(&info.Key, &info.Title, &info.CitationCount, &createdAt, &info.Authors); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			info.CreatedAt = t
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// SearchHit is one full-text match over stored summary text.
type SearchHit struct {
	RunKey     string `json:"run_key" yaml:"run_key"`
	PaperTitle string `json:"paper_title" yaml:"paper_title"`
	Kind       string `json:"kind" yaml:"kind"`
	Author     string `json:"author,omitempty" yaml:"author,omitempty"`
	Snippet    string `json:"snippet" yaml:"snippet"`
}

// Search runs an FTS5 query over stored summaries, optionally restricted
// to one paper title. Results are ranked by relevance.
func (s *Store) Search(ctx context.Context, query, title string, maxResults int) ([]SearchHit, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	q := `SELECT sm.run_key, r.title, sm.kind, sm.author,
	             snippet(summaries_fts, 0, '[', ']', '...', 16)
	      FROM summaries_fts
	      JOIN summaries sm ON sm.rowid = summaries_fts.rowid
	      JOIN runs r ON r.key = sm.run_key
	      WHERE summaries_fts MATCH ?`
	args := []any{ftsQuote(query)}

	if title != "" {
		q += ` AND sm.run_key = ?`
		args = append(args, RunKey(title))
	}
	q += ` ORDER BY rank LIMIT ?`
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("full-text search: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.RunKey, &h.PaperTitle, &h.Kind, &h.Author, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ftsQuote wraps each search term in double quotes so FTS5 treats user
// input as plain terms rather than query syntax.
func ftsQuote(query string) string {
	var quoted []byte
	for _, field := range splitFields(query) {
		if len(quoted) > 0 {
			quoted = append(quoted, ' ')
		}
		quoted = append(quoted, '"')
		quoted = append(quoted, field...)
		quoted = append(quoted, '"')
	}
	return string(quoted)
}

func splitFields(s string) []string {
	var fields []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '"' {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}
