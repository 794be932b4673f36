// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize orchestrates the author-brief pipeline: scholar lookup,
// author filtering, per-author web search, LLM summarization, and the final
// biography document.
package summarize

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/author-brief/internal/llm"
	"github.com/pdiddy/author-brief/internal/scholar"
	"github.com/pdiddy/author-brief/internal/store"
	"github.com/pdiddy/author-brief/internal/websearch"
	"github.com/pdiddy/author-brief/pkg/types"
)

// ScholarSource resolves papers and author profiles. The production
// implementation is *scholar.Client; tests supply a mock.
type ScholarSource interface {
	LookupPaper(ctx context.Context, title string) (*types.Paper, error)
	FetchAuthors(ctx context.Context, paper *types.Paper, w io.Writer) ([]types.Author, error)
}

// Pipeline bundles the external services a run needs. Cache may be nil,
// which disables result reuse.
type Pipeline struct {
	Scholar ScholarSource
	Search  websearch.Searcher
	LLM     llm.Backend
	Cache   *store.Store
}

// Run builds the brief for one paper title. Progress lines are written to
// w; per-author fetch problems are warnings, stage failures are errors.
func (p Pipeline) Run(ctx context.Context, title string, cfg types.Config, w io.Writer) (*types.Brief, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("paper title is empty")
	}

	if p.Cache != nil && cfg.Cache.Enabled {
		cached, err := p.Cache.LoadRun(ctx, title)
		if err != nil {
			fmt.Fprintf(w, "warning: cache lookup failed: %v\n", err)
		} else if cached != nil {
			fmt.Fprintf(w, "reusing cached brief for %q\n", cached.Paper.Title)
			return cached, nil
		}
	}

	fmt.Fprintf(w, "looking up %q\n", title)
	paper, err := p.Scholar.LookupPaper(ctx, title)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "found %q (%d, %d citations, %d authors)\n",
		paper.Title, paper.Year, paper.CitationCount, len(paper.Authors))

	authors, err := p.Scholar.FetchAuthors(ctx, paper, w)
	if err != nil {
		return nil, err
	}

	brief := &types.Brief{Paper: *paper}

	// Keep each author's top papers, order authors by citations, and drop
	// the ones whose record is mostly the shared paper itself.
	for i := range authors {
		authors[i].Papers = scholar.TopPapers(authors[i].Papers, cfg.Scholar.TopPapers)
	}
	scholar.SortByCitations(authors)
	kept, removed := scholar.FilterByCitations(authors, cfg.Scholar.CitationThreshold, paper.CitationCount)
	brief.RemovedAuthors = removed
	for _, name := range removed {
		fmt.Fprintf(w, "filtered out %s (below citation threshold)\n", name)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no authors of %q pass the citation threshold %d", paper.Title, cfg.Scholar.CitationThreshold)
	}

	if err := p.digestAbstracts(ctx, kept, cfg, w); err != nil {
		return nil, err
	}

	scholarSummary, err := p.summarizeScholar(ctx, paper.Title, kept, cfg)
	if err != nil {
		return nil, fmt.Errorf("scholar summary: %w", err)
	}
	brief.ScholarSummary = scholarSummary

	results, err := p.summarizeWeb(ctx, kept, cfg, w)
	if err != nil {
		return nil, err
	}
	brief.Authors = results

	fmt.Fprintln(w, "merging summaries")
	system, user, err := llm.FinalPrompt(paper.Title, scholarSummary, joinWebSummaries(results))
	if err != nil {
		return nil, err
	}
	text, err := llm.CompleteWithRetry(ctx, p.LLM, system, user, cfg.LLM.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("final summary: %w", err)
	}
	if len(removed) > 0 {
		text += fmt.Sprintf("\n\nThe following authors were omitted because their citation record is not yet established: %s.",
			strings.Join(removed, ", "))
	}
	brief.Text = text

	system, user, err = llm.HTMLPrompt(text)
	if err != nil {
		return nil, err
	}
	html, err := llm.CompleteWithRetry(ctx, p.LLM, system, user, cfg.LLM.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("HTML formatting: %w", err)
	}
	brief.HTML = html

	if p.Cache != nil && cfg.Cache.Enabled {
		if err := p.Cache.SaveRun(ctx, brief); err != nil {
			fmt.Fprintf(w, "warning: caching brief failed: %v\n", err)
		}
	}

	return brief, nil
}

// digestAbstracts fills the AbstractDigest of every kept paper that has an
// abstract. Papers without one are left alone.
func (p Pipeline) digestAbstracts(ctx context.Context, authors []types.Author, cfg types.Config, w io.Writer) error {
	for ai := range authors {
		fmt.Fprintf(w, "digesting abstracts for %s\n", authors[ai].Name)
		for pi := range authors[ai].Papers {
			abstract := authors[ai].Papers[pi].Abstract
			if strings.TrimSpace(abstract) == "" {
				continue
			}
			system, user, err := llm.AbstractPrompt(abstract)
			if err != nil {
				return err
			}
			digest, err := llm.CompleteWithRetry(ctx, p.LLM, system, user, cfg.LLM.MaxRetries)
			if err != nil {
				return fmt.Errorf("abstract digest for %q: %w", authors[ai].Papers[pi].Title, err)
			}
			authors[ai].Papers[pi].AbstractDigest = digest
		}
	}
	return nil
}

// summarizeScholar renders the author profiles to text and asks the LLM
// for the combined academic-impact summary.
func (p Pipeline) summarizeScholar(ctx context.Context, paperTitle string, authors []types.Author, cfg types.Config) (string, error) {
	var b strings.Builder
	for _, a := range authors {
		b.WriteString(llm.AuthorProfileText(a))
		b.WriteString("\n")
	}

	system, user, err := llm.ScholarPrompt(paperTitle, b.String())
	if err != nil {
		return "", err
	}
	return llm.CompleteWithRetry(ctx, p.LLM, system, user, cfg.LLM.MaxRetries)
}

// summarizeWeb searches the web for each author and digests the hits.
func (p Pipeline) summarizeWeb(ctx context.Context, authors []types.Author, cfg types.Config, w io.Writer) ([]types.AuthorResult, error) {
	results := make([]types.AuthorResult, 0, len(authors))
	for _, a := range authors {
		fmt.Fprintf(w, "searching the web for %s\n", a.Name)
		hits, err := p.Search.Search(ctx, a.Name, cfg.WebSearch.MaxResults)
		if err != nil {
			return nil, fmt.Errorf("web search for %s: %w", a.Name, err)
		}

		ar := types.AuthorResult{Author: a, WebResults: hits}
		if len(hits) == 0 {
			fmt.Fprintf(w, "warning: no web results for %s\n", a.Name)
			results = append(results, ar)
			continue
		}

		system, user, err := llm.WebPrompt(a.Name, websearch.FormatResults(hits))
		if err != nil {
			return nil, err
		}
		summary, err := llm.CompleteWithRetry(ctx, p.LLM, system, user, cfg.LLM.MaxRetries)
		if err != nil {
			return nil, fmt.Errorf("web summary for %s: %w", a.Name, err)
		}
		ar.WebSummary = summary
		results = append(results, ar)
	}
	return results, nil
}

// joinWebSummaries concatenates the per-author web summaries for the final
// merge prompt.
func joinWebSummaries(results []types.AuthorResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.WebSummary == "" {
			continue
		}
		fmt.Fprintf(&b, "%s:\n%s\n", r.Author.Name, r.WebSummary)
	}
	return b.String()
}
