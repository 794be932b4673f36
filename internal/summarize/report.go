// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/author-brief/internal/websearch"
	"github.com/pdiddy/author-brief/pkg/types"
)

const intermediateDir = "intermediate"

// Report holds the paths written for one brief.
type Report struct {
	Dir      string
	TextPath string
	HTMLPath string
}

// WriteReport writes brief.txt and brief.html under
// cfg.Dir/<sanitized paper title>/, plus the per-stage artifacts when
// cfg.WriteIntermediate is set.
func WriteReport(brief *types.Brief, cfg types.OutputConfig, w io.Writer) (*Report, error) {
	dir := filepath.Join(cfg.Dir, SanitizeDirName(brief.Paper.Title))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	report := &Report{
		Dir:      dir,
		TextPath: filepath.Join(dir, "brief.txt"),
		HTMLPath: filepath.Join(dir, "brief.html"),
	}

	text := brief.Text + sourcesSection(brief)
	if err := os.WriteFile(report.TextPath, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("writing text report: %w", err)
	}
	if err := os.WriteFile(report.HTMLPath, []byte(brief.HTML), 0o644); err != nil {
		return nil, fmt.Errorf("writing HTML report: %w", err)
	}

	if cfg.WriteIntermediate {
		if err := writeIntermediate(brief, dir); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(w, "wrote %s\n", report.TextPath)
	fmt.Fprintf(w, "wrote %s\n", report.HTMLPath)
	return report, nil
}

// writeIntermediate writes the per-stage artifacts: scholar profiles, the
// scholar summary, and the raw search results and web summary per author.
func writeIntermediate(brief *types.Brief, dir string) error {
	interDir := filepath.Join(dir, intermediateDir)
	if err := os.MkdirAll(interDir, 0o755); err != nil {
		return fmt.Errorf("creating intermediate directory: %w", err)
	}

	profiles := make([]types.Author, 0, len(brief.Authors))
	sources := make(map[string][]string, len(brief.Authors))
	for _, ar := range brief.Authors {
		profiles = append(profiles, ar.Author)
		sources[ar.Author.Name] = websearch.SourceURLs(ar.WebResults)
	}

	files := map[string][]byte{
		"scholar_summary.txt": []byte(brief.ScholarSummary),
	}
	if data, err := yaml.Marshal(profiles); err == nil {
		files["scholar.yaml"] = data
	} else {
		return fmt.Errorf("marshaling scholar profiles: %w", err)
	}
	if data, err := yaml.Marshal(sources); err == nil {
		files["sources.yaml"] = data
	} else {
		return fmt.Errorf("marshaling sources: %w", err)
	}
	for _, ar := range brief.Authors {
		slug := SanitizeDirName(ar.Author.Name)
		files["websearch-"+slug+".txt"] = []byte(websearch.FormatResults(ar.WebResults))
		files["websummary-"+slug+".txt"] = []byte(ar.WebSummary)
	}

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(interDir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// sourcesSection renders the per-author web sources appended to the text
// report so every biography names the pages it drew from.
func sourcesSection(brief *types.Brief) string {
	var b strings.Builder
	wrote := false
	for _, ar := range brief.Authors {
		urls := websearch.SourceURLs(ar.WebResults)
		if len(urls) == 0 {
			continue
		}
		if !wrote {
			b.WriteString("\n\nSources consulted:\n")
			wrote = true
		}
		fmt.Fprintf(&b, "%s:\n", ar.Author.Name)
		for _, u := range urls {
			fmt.Fprintf(&b, "  - %s\n", u)
		}
	}
	return b.String()
}

// SanitizeDirName strips characters that are invalid in directory names
// and trims trailing dots and spaces.
func SanitizeDirName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`<>:"|?*/\`, r):
		case r == '\n' || r == '\r' || r == '\t':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(strings.TrimSpace(b.String()), ". ")
}
