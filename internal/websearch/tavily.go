// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch runs per-author web searches through the Tavily API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/author-brief/internal/httputil"
	"github.com/pdiddy/author-brief/pkg/types"
)

// tavilyAPIBase is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com/search"

// Searcher finds web results for a query. The pipeline and its tests use
// this interface; TavilyClient is the production implementation.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.WebResult, error)
}

// TavilyClient queries the Tavily search API.
type TavilyClient struct {
	HTTP   *http.Client
	APIKey string
	Config types.WebSearchConfig
}

// tavilyRequest is the Tavily search request body.
type tavilyRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

// tavilyResponse is the Tavily search response body.
type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Search posts a query to Tavily and returns up to maxResults hits.
func (t *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]types.WebResult, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, fmt.Errorf("tavily: API key is missing")
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	depth := t.Config.Depth
	if depth == "" {
		depth = "basic"
	}

	body, err := json.Marshal(tavilyRequest{
		Query:       query,
		APIKey:      t.APIKey,
		SearchDepth: depth,
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.Config.UserAgent)

	client := t.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily API returned HTTP %d", resp.StatusCode)
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	results := make([]types.WebResult, 0, len(tr.Results))
	for _, r := range tr.Results {
		results = append(results, types.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// FormatResults renders search hits as "title: content" lines for LLM prompts.
func FormatResults(results []types.WebResult) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s: %s\n", r.Title, r.Content)
	}
	return b.String()
}

// SourceURLs returns the result URLs in rank order, for the report's
// per-author sources section.
func SourceURLs(results []types.WebResult) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls
}
