// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/author-brief/pkg/types"
)

func TestSanitizeDirName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Attention Is All You Need", "Attention Is All You Need"},
		{`What? A "Title": <with> bad|chars*`, "What A Title with badchars"},
		{"trailing dots... ", "trailing dots"},
		{"line\nbreak\ttab", "linebreaktab"},
		{"path/separators\\too", "path" + "separators" + "too"},
	}
	for _, tt := range tests {
		if got := SanitizeDirName(tt.in); got != tt.want {
			t.Errorf("SanitizeDirName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func reportBrief() *types.Brief {
	return &types.Brief{
		Paper: types.Paper{Title: "Some: Paper?"},
		Authors: []types.AuthorResult{
			{
				Author: types.Author{Name: "Alice Major", CitationCount: 50000},
				WebResults: []types.WebResult{
					{Title: "Faculty page", URL: "https://uni.example/alice", Content: "Professor."},
				},
				WebSummary: "Alice is a professor.",
			},
		},
		ScholarSummary: "Alice is highly cited.",
		Text:           "Final biography.",
		HTML:           "<h2>Alice Major</h2>",
	}
}

func TestWriteReport(t *testing.T) {
	base := t.TempDir()
	cfg := types.OutputConfig{Dir: base, WriteIntermediate: true}

	var buf bytes.Buffer
	report, err := WriteReport(reportBrief(), cfg, &buf)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	if filepath.Base(report.Dir) != "Some Paper" {
		t.Errorf("report dir = %q, want sanitized title", report.Dir)
	}

	text, err := os.ReadFile(report.TextPath)
	if err != nil {
		t.Fatalf("reading text report: %v", err)
	}
	if !strings.HasPrefix(string(text), "Final biography.") {
		t.Errorf("text report = %q", text)
	}
	if !strings.Contains(string(text), "https://uni.example/alice") {
		t.Errorf("text report missing sources section:\n%s", text)
	}

	html, err := os.ReadFile(report.HTMLPath)
	if err != nil {
		t.Fatalf("reading HTML report: %v", err)
	}
	if string(html) != "<h2>Alice Major</h2>" {
		t.Errorf("HTML report = %q", html)
	}

	for _, name := range []string{
		"scholar.yaml",
		"scholar_summary.txt",
		"sources.yaml",
		"websearch-Alice Major.txt",
		"websummary-Alice Major.txt",
	} {
		if _, err := os.Stat(filepath.Join(report.Dir, intermediateDir, name)); err != nil {
			t.Errorf("missing intermediate file %s: %v", name, err)
		}
	}

	progress := buf.String()
	if !strings.Contains(progress, "brief.txt") || !strings.Contains(progress, "brief.html") {
		t.Errorf("progress output = %q", progress)
	}
}

func TestWriteReportSkipsIntermediate(t *testing.T) {
	base := t.TempDir()
	cfg := types.OutputConfig{Dir: base}

	report, err := WriteReport(reportBrief(), cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if _, err := os.Stat(filepath.Join(report.Dir, intermediateDir)); !os.IsNotExist(err) {
		t.Errorf("intermediate directory written despite WriteIntermediate=false")
	}
}

func TestSourcesSectionEmptyWithoutURLs(t *testing.T) {
	brief := reportBrief()
	brief.Authors[0].WebResults = nil
	if got := sourcesSection(brief); got != "" {
		t.Errorf("sourcesSection = %q, want empty", got)
	}
}
