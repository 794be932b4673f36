// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the author-brief pipeline:
// the looked-up paper, per-author scholar profiles, web search results, and
// the assembled brief.
package types

// Paper holds the metadata Semantic Scholar returns for the looked-up paper.
type Paper struct {
	// ID is the Semantic Scholar paper identifier.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the API, which may differ
	// from the query string.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, possibly empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Year is the publication year, zero when unknown.
	Year int `json:"year" yaml:"year"`

	// CitationCount is the paper's citation count. Author filtering is
	// measured relative to this value.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// URL is the Semantic Scholar landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// DOI and ArxivID are external identifiers when available.
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Authors lists the paper's authors in source order.
	Authors []AuthorRef `json:"authors" yaml:"authors"`
}

// AuthorRef identifies one author of the looked-up paper.
type AuthorRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// AuthorPaper is one publication on an author's profile.
type AuthorPaper struct {
	Title     string `json:"title" yaml:"title"`
	Year      int    `json:"year" yaml:"year"`
	Citations int    `json:"citations" yaml:"citations"`
	Abstract  string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// AbstractDigest is the LLM digest of the abstract, filled during the
	// pipeline's abstract stage.
	AbstractDigest string `json:"abstract_digest,omitempty" yaml:"abstract_digest,omitempty"`
}

// Author is a full scholar profile for one author of the looked-up paper.
type Author struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`

	// CitationCount is the author's total citation count across all papers.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// HIndex is the author's h-index.
	HIndex int `json:"h_index" yaml:"h_index"`

	// Papers lists the author's publications. After filtering it holds only
	// the top-K most-cited ones.
	Papers []AuthorPaper `json:"papers" yaml:"papers"`
}

// WebResult is a single web search hit for an author query.
type WebResult struct {
	Title   string  `json:"title" yaml:"title"`
	URL     string  `json:"url" yaml:"url"`
	Content string  `json:"content" yaml:"content"`
	Score   float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// AuthorResult bundles everything the pipeline produced for one author.
type AuthorResult struct {
	Author Author `json:"author" yaml:"author"`

	// WebResults holds the raw search hits for the author.
	WebResults []WebResult `json:"web_results,omitempty" yaml:"web_results,omitempty"`

	// WebSummary is the LLM digest of the author's web search results.
	WebSummary string `json:"web_summary,omitempty" yaml:"web_summary,omitempty"`
}

// Brief is the complete output of one pipeline run.
type Brief struct {
	// Paper is the resolved paper the brief was built for.
	Paper Paper `json:"paper" yaml:"paper"`

	// Authors holds the per-author results in citation order.
	Authors []AuthorResult `json:"authors" yaml:"authors"`

	// RemovedAuthors names the authors dropped by the citation filter.
	RemovedAuthors []string `json:"removed_authors,omitempty" yaml:"removed_authors,omitempty"`

	// ScholarSummary is the LLM digest of all scholar profiles together.
	ScholarSummary string `json:"scholar_summary" yaml:"scholar_summary"`

	// Text is the final per-author biography document.
	Text string `json:"text" yaml:"text"`

	// HTML is the LLM-formatted HTML rendering of Text.
	HTML string `json:"html" yaml:"html"`

	// FromCache reports whether the brief was reloaded from the local cache
	// instead of rebuilt from live API calls.
	FromCache bool `json:"from_cache" yaml:"from_cache"`
}
