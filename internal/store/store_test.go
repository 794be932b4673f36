// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/author-brief/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBrief() *types.Brief {
	return &types.Brief{
		Paper: types.Paper{
			ID:            "p123",
			Title:         "Attention Is All You Need",
			Year:          2017,
			CitationCount: 90000,
		},
		Authors: []types.AuthorResult{
			{
				Author: types.Author{
					ID: "a1", Name: "Ashish Vaswani", CitationCount: 120000, HIndex: 40,
					Papers: []types.AuthorPaper{{Title: "Tensor2Tensor", Year: 2018, Citations: 1200}},
				},
				WebResults: []types.WebResult{{Title: "Faculty page", URL: "https://uni.example", Content: "Professor."}},
				WebSummary: "Vaswani is a professor working on transformers.",
			},
			{
				Author:     types.Author{ID: "a2", Name: "Noam Shazeer", CitationCount: 110000, HIndex: 38},
				WebSummary: "Shazeer co-founded a startup after Google.",
			},
		},
		RemovedAuthors: []string{"Junior Author"},
		ScholarSummary: "Both authors are highly cited.",
		Text:           "Final biography document.",
		HTML:           "<h2>Ashish Vaswani</h2>",
	}
}

func TestRunKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Attention Is All You Need", "attention is all you need"},
		{"  Attention   Is: All? You* Need!  ", "attention is all you need"},
		{"BERT (2018)", "bert 2018"},
	}
	for _, tt := range tests {
		if got := RunKey(tt.in); got != tt.want {
			t.Errorf("RunKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, sampleBrief()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	// Lookup is keyed on the normalized title.
	got, err := s.LoadRun(ctx, "attention is all you NEED")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if got == nil {
		t.Fatal("LoadRun returned nil for a stored run")
	}

	if !got.FromCache {
		t.Error("FromCache = false")
	}
	if got.Paper.CitationCount != 90000 {
		t.Errorf("Paper.CitationCount = %d", got.Paper.CitationCount)
	}
	if len(got.Authors) != 2 {
		t.Fatalf("got %d authors, want 2", len(got.Authors))
	}
	if got.Authors[0].Author.Name != "Ashish Vaswani" {
		t.Errorf("author order not preserved: %q first", got.Authors[0].Author.Name)
	}
	if got.Authors[0].WebSummary != "Vaswani is a professor working on transformers." {
		t.Errorf("WebSummary = %q", got.Authors[0].WebSummary)
	}
	if len(got.Authors[0].WebResults) != 1 || got.Authors[0].WebResults[0].URL != "https://uni.example" {
		t.Errorf("WebResults = %+v", got.Authors[0].WebResults)
	}
	if got.ScholarSummary != "Both authors are highly cited." {
		t.Errorf("ScholarSummary = %q", got.ScholarSummary)
	}
	if got.Text != "Final biography document." || got.HTML != "<h2>Ashish Vaswani</h2>" {
		t.Errorf("Text = %q, HTML = %q", got.Text, got.HTML)
	}
	if len(got.RemovedAuthors) != 1 || got.RemovedAuthors[0] != "Junior Author" {
		t.Errorf("RemovedAuthors = %v", got.RemovedAuthors)
	}
}

func TestLoadRunMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.LoadRun(context.Background(), "never stored")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if got != nil {
		t.Errorf("LoadRun = %+v, want nil", got)
	}
}

func TestSaveRunReplacesPrevious(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, sampleBrief()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	updated := sampleBrief()
	updated.Text = "Rewritten biography."
	updated.Authors = updated.Authors[:1]
	if err := s.SaveRun(ctx, updated); err != nil {
		t.Fatalf("SaveRun (second): %v", err)
	}

	got, err := s.LoadRun(ctx, "Attention Is All You Need")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if got.Text != "Rewritten biography." {
		t.Errorf("Text = %q", got.Text)
	}
	if len(got.Authors) != 1 {
		t.Errorf("got %d authors, want 1 after replacement", len(got.Authors))
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs, want 1", len(runs))
	}
}

func TestSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, sampleBrief()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	hits, err := s.Search(ctx, "transformers", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("no hits for term present in a web summary")
	}
	if hits[0].Kind != KindWeb || hits[0].Author != "Ashish Vaswani" {
		t.Errorf("hits[0] = %+v", hits[0])
	}

	// Restricting to another paper excludes the hit.
	hits, err = s.Search(ctx, "transformers", "A Different Paper", 10)
	if err != nil {
		t.Fatalf("Search with filter: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits for non-matching paper filter", len(hits))
	}

	// Quoting keeps FTS syntax characters in user input from breaking the query.
	if _, err := s.Search(ctx, `professor "transformers`, "", 10); err != nil {
		t.Errorf("Search with quote in query: %v", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Search(context.Background(), "", "", 10); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestDeleteAndClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, sampleBrief()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.DeleteRun(ctx, "Attention Is All You Need"); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	got, err := s.LoadRun(ctx, "Attention Is All You Need")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if got != nil {
		t.Error("run still present after DeleteRun")
	}

	if err := s.SaveRun(ctx, sampleBrief()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs after Clear", len(runs))
	}
}

func TestExportFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	if err := s.SaveRun(ctx, sampleBrief()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if err := s.ExportYAML(ctx, dir); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	if err := s.ExportJSON(ctx, dir); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var fromYAML []ExportEntry
	data, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	if err != nil {
		t.Fatalf("reading export.yaml: %v", err)
	}
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("parsing export.yaml: %v", err)
	}

	var fromJSON []ExportEntry
	data, err = os.ReadFile(filepath.Join(dir, "export.json"))
	if err != nil {
		t.Fatalf("reading export.json: %v", err)
	}
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("parsing export.json: %v", err)
	}

	for _, entries := range [][]ExportEntry{fromYAML, fromJSON} {
		if len(entries) != 1 {
			t.Fatalf("got %d export entries, want 1", len(entries))
		}
		if entries[0].Paper.Title != "Attention Is All You Need" {
			t.Errorf("exported title = %q", entries[0].Paper.Title)
		}
		if len(entries[0].Authors) != 2 {
			t.Errorf("exported %d authors, want 2", len(entries[0].Authors))
		}
	}
}
