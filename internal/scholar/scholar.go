// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar resolves a paper title to its metadata and author
// profiles through the Semantic Scholar graph API.
package scholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/author-brief/internal/httputil"
	"github.com/pdiddy/author-brief/pkg/types"
)

// API endpoints. Declared as vars so tests can substitute httptest servers.
var (
	paperSearchBase = "https://api.semanticscholar.org/graph/v1/paper/search"
	authorAPIBase   = "https://api.semanticscholar.org/graph/v1/author"
)

const (
	paperFields  = "title,abstract,year,authors,citationCount,url,externalIds"
	authorFields = "name,affiliations,citationCount,hIndex,papers.title,papers.year,papers.citationCount,papers.abstract"
)

// ErrPaperNotFound is returned when the title query matches no paper.
// Interactive mode re-prompts on it instead of aborting.
var ErrPaperNotFound = errors.New("paper not found")

// Client queries the Semantic Scholar graph API.
type Client struct {
	HTTP   *http.Client
	APIKey string
	Config types.ScholarConfig
}

// LookupPaper searches for a paper by title and returns the best match.
func (c *Client) LookupPaper(ctx context.Context, title string) (*types.Paper, error) {
	params := url.Values{
		"query":  {title},
		"limit":  {"1"},
		"fields": {paperFields},
	}

	var sr searchResponse
	if err := c.get(ctx, paperSearchBase+"?"+params.Encode(), &sr); err != nil {
		return nil, fmt.Errorf("paper search: %w", err)
	}
	if len(sr.Data) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPaperNotFound, title)
	}

	p := sr.Data[0]
	paper := &types.Paper{
		ID:            p.PaperID,
		Title:         p.Title,
		Abstract:      p.Abstract,
		Year:          p.Year,
		CitationCount: p.CitationCount,
		URL:           p.URL,
		DOI:           p.ExternalIDs.DOI,
		ArxivID:       p.ExternalIDs.ArXiv,
	}
	for _, a := range p.Authors {
		paper.Authors = append(paper.Authors, types.AuthorRef{ID: a.AuthorID, Name: a.Name})
	}
	return paper, nil
}

// FetchAuthor retrieves the full profile for one author, including their
// publication list with citation counts and abstracts.
func (c *Client) FetchAuthor(ctx context.Context, authorID string) (*types.Author, error) {
	params := url.Values{"fields": {authorFields}}
	reqURL := fmt.Sprintf("%s/%s?%s", authorAPIBase, url.PathEscape(authorID), params.Encode())

	var ar authorResponse
	if err := c.get(ctx, reqURL, &ar); err != nil {
		return nil, fmt.Errorf("author %s: %w", authorID, err)
	}
	if ar.Name == "" {
		return nil, fmt.Errorf("author %s: profile has no name", authorID)
	}

	author := &types.Author{
		ID:            ar.AuthorID,
		Name:          ar.Name,
		Affiliations:  ar.Affiliations,
		CitationCount: ar.CitationCount,
		HIndex:        ar.HIndex,
	}
	if author.ID == "" {
		author.ID = authorID
	}
	for _, p := range ar.Papers {
		author.Papers = append(author.Papers, types.AuthorPaper{
			Title:     p.Title,
			Year:      p.Year,
			Citations: p.CitationCount,
			Abstract:  p.Abstract,
		})
	}
	return author, nil
}

// FetchAuthors retrieves profiles for every author of the paper. A failed
// profile fetch is reported as a warning on w and skipped; the remaining
// authors are still returned.
func (c *Client) FetchAuthors(ctx context.Context, paper *types.Paper, w io.Writer) ([]types.Author, error) {
	var authors []types.Author
	for _, ref := range paper.Authors {
		if ref.ID == "" {
			fmt.Fprintf(w, "warning: author %q has no Semantic Scholar ID, skipping\n", ref.Name)
			continue
		}
		author, err := c.FetchAuthor(ctx, ref.ID)
		if err != nil {
			fmt.Fprintf(w, "warning: could not fetch profile for %s: %v\n", ref.Name, err)
			continue
		}
		authors = append(authors, *author)
	}
	if len(authors) == 0 {
		return nil, fmt.Errorf("no author profiles could be fetched for %q", paper.Title)
	}
	return authors, nil
}

// get performs a GET with retry and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return nil
}

// Semantic Scholar API JSON structures.
type searchResponse struct {
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Data   []searchPaper `json:"data"`
}

type searchPaper struct {
	PaperID       string         `json:"paperId"`
	Title         string         `json:"title"`
	Abstract      string         `json:"abstract"`
	Year          int            `json:"year"`
	CitationCount int            `json:"citationCount"`
	URL           string         `json:"url"`
	Authors       []searchAuthor `json:"authors"`
	ExternalIDs   externalIDs    `json:"externalIds"`
}

type searchAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type externalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}

type authorResponse struct {
	AuthorID      string        `json:"authorId"`
	Name          string        `json:"name"`
	Affiliations  []string      `json:"affiliations"`
	CitationCount int           `json:"citationCount"`
	HIndex        int           `json:"hIndex"`
	Papers        []authorPaper `json:"papers"`
}

type authorPaper struct {
	Title         string `json:"title"`
	Year          int    `json:"year"`
	CitationCount int    `json:"citationCount"`
	Abstract      string `json:"abstract"`
}
