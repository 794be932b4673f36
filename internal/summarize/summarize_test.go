// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/author-brief/internal/store"
	"github.com/pdiddy/author-brief/pkg/types"
)

// --- mocks ---

type mockScholar struct {
	paper      *types.Paper
	authors    []types.Author
	lookupErr  error
	lookups    int
	authorHits int
}

func (m *mockScholar) LookupPaper(_ context.Context, _ string) (*types.Paper, error) {
	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.paper, nil
}

func (m *mockScholar) FetchAuthors(_ context.Context, _ *types.Paper, _ io.Writer) ([]types.Author, error) {
	m.authorHits++
	out := make([]types.Author, len(m.authors))
	copy(out, m.authors)
	return out, nil
}

type mockSearcher struct {
	queries []string
	results []types.WebResult
}

func (m *mockSearcher) Search(_ context.Context, query string, _ int) ([]types.WebResult, error) {
	m.queries = append(m.queries, query)
	return m.results, nil
}

// mockLLM dispatches canned completions by matching fragments of the user
// prompt, mirroring how each pipeline stage phrases its request.
type mockLLM struct {
	calls []string
}

func (m *mockLLM) Complete(_ context.Context, _, user string) (string, error) {
	m.calls = append(m.calls, user)
	switch {
	case strings.Contains(user, "Summarize the following abstract"):
		return "abstract digest", nil
	case strings.Contains(user, "academic impact"):
		return "scholar summary", nil
	case strings.Contains(user, "public research profile"):
		return "web summary", nil
	case strings.Contains(user, "create a final summary"):
		return "final document", nil
	case strings.Contains(user, "semantic HTML"):
		return "<h2>final</h2>", nil
	}
	return "", fmt.Errorf("unexpected prompt: %.60s", user)
}

func testPaper() *types.Paper {
	return &types.Paper{
		ID:            "p1",
		Title:         "Attention Is All You Need",
		Year:          2017,
		CitationCount: 1000,
		Authors: []types.AuthorRef{
			{ID: "a1", Name: "Alice Major"},
			{ID: "a2", Name: "Bob Minor"},
		},
	}
}

func testAuthors() []types.Author {
	return []types.Author{
		{
			ID: "a2", Name: "Bob Minor", CitationCount: 1200, HIndex: 5,
			Papers: []types.AuthorPaper{{Title: "Small result", Citations: 50, Abstract: "A modest abstract."}},
		},
		{
			ID: "a1", Name: "Alice Major", CitationCount: 50000, HIndex: 60,
			Papers: []types.AuthorPaper{
				{Title: "Big result", Citations: 9000, Abstract: "A big abstract."},
				{Title: "No abstract", Citations: 8000},
			},
		},
	}
}

func testConfig() types.Config {
	return types.Config{
		Scholar:   types.ScholarConfig{TopPapers: 5, CitationThreshold: 1000},
		WebSearch: types.WebSearchConfig{MaxResults: 3},
		LLM:       types.LLMConfig{MaxRetries: 1},
	}
}

// --- Run ---

func TestRunProducesBrief(t *testing.T) {
	sch := &mockScholar{paper: testPaper(), authors: testAuthors()}
	search := &mockSearcher{results: []types.WebResult{{Title: "Page", URL: "https://x.example", Content: "Bio."}}}
	model := &mockLLM{}

	var buf bytes.Buffer
	brief, err := Pipeline{Scholar: sch, Search: search, LLM: model}.Run(
		context.Background(), "attention", testConfig(), &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Bob Minor has 1200 citations against a 1000-citation paper and a
	// 1000 threshold, so he is filtered; Alice Major stays.
	if len(brief.Authors) != 1 || brief.Authors[0].Author.Name != "Alice Major" {
		t.Fatalf("kept authors = %+v", brief.Authors)
	}
	if len(brief.RemovedAuthors) != 1 || brief.RemovedAuthors[0] != "Bob Minor" {
		t.Errorf("RemovedAuthors = %v", brief.RemovedAuthors)
	}

	// One web search per kept author, using the author name as the query.
	if len(search.queries) != 1 || search.queries[0] != "Alice Major" {
		t.Errorf("search queries = %v", search.queries)
	}

	if brief.ScholarSummary != "scholar summary" {
		t.Errorf("ScholarSummary = %q", brief.ScholarSummary)
	}
	if brief.Authors[0].WebSummary != "web summary" {
		t.Errorf("WebSummary = %q", brief.Authors[0].WebSummary)
	}
	if !strings.HasPrefix(brief.Text, "final document") {
		t.Errorf("Text = %q", brief.Text)
	}
	if !strings.Contains(brief.Text, "Bob Minor") {
		t.Errorf("final text missing removed-author note: %q", brief.Text)
	}
	if brief.HTML != "<h2>final</h2>" {
		t.Errorf("HTML = %q", brief.HTML)
	}
	if brief.FromCache {
		t.Error("FromCache = true for a fresh run")
	}
}

func TestRunDigestsOnlyPresentAbstracts(t *testing.T) {
	sch := &mockScholar{paper: testPaper(), authors: testAuthors()}
	search := &mockSearcher{results: []types.WebResult{{Title: "Page", Content: "Bio."}}}
	model := &mockLLM{}

	var buf bytes.Buffer
	brief, err := Pipeline{Scholar: sch, Search: search, LLM: model}.Run(
		context.Background(), "attention", testConfig(), &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	papers := brief.Authors[0].Author.Papers
	if papers[0].AbstractDigest != "abstract digest" {
		t.Errorf("digest for paper with abstract = %q", papers[0].AbstractDigest)
	}
	if papers[1].AbstractDigest != "" {
		t.Errorf("digest for paper without abstract = %q", papers[1].AbstractDigest)
	}

	// Exactly one abstract call: the second paper has no abstract and the
	// filtered author's papers are never digested.
	abstractCalls := 0
	for _, call := range model.calls {
		if strings.Contains(call, "Summarize the following abstract") {
			abstractCalls++
		}
	}
	if abstractCalls != 1 {
		t.Errorf("abstract calls = %d, want 1", abstractCalls)
	}
}

func TestRunAllAuthorsFiltered(t *testing.T) {
	authors := []types.Author{{Name: "Only Author", CitationCount: 10}}
	sch := &mockScholar{paper: testPaper(), authors: authors}
	model := &mockLLM{}

	var buf bytes.Buffer
	_, err := Pipeline{Scholar: sch, Search: &mockSearcher{}, LLM: model}.Run(
		context.Background(), "attention", testConfig(), &buf)
	if err == nil || !strings.Contains(err.Error(), "citation threshold") {
		t.Errorf("err = %v, want citation threshold error", err)
	}
}

func TestRunEmptyTitle(t *testing.T) {
	_, err := Pipeline{}.Run(context.Background(), "  ", testConfig(), io.Discard)
	if err == nil {
		t.Error("expected error for empty title")
	}
}

func TestRunUsesCache(t *testing.T) {
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()

	cfg := testConfig()
	cfg.Cache.Enabled = true

	sch := &mockScholar{paper: testPaper(), authors: testAuthors()}
	search := &mockSearcher{results: []types.WebResult{{Title: "Page", Content: "Bio."}}}
	p := Pipeline{Scholar: sch, Search: search, LLM: &mockLLM{}, Cache: s}

	var buf bytes.Buffer
	first, err := p.Run(context.Background(), "attention is all you need", cfg, &buf)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// The second run reuses the stored brief: the title resolves through
	// the cache key, so no scholar lookup happens.
	second, err := p.Run(context.Background(), "Attention Is All You Need", cfg, &buf)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if sch.lookups != 1 {
		t.Errorf("lookups = %d, want 1", sch.lookups)
	}
	if !second.FromCache {
		t.Error("second run not served from cache")
	}
	if second.Text != first.Text {
		t.Errorf("cached Text = %q, want %q", second.Text, first.Text)
	}
}
