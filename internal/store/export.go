// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/author-brief/pkg/types"
)

// ExportEntry holds one cached run in the export file.
type ExportEntry struct {
	Key            string               `json:"key" yaml:"key"`
	Paper          types.Paper          `json:"paper" yaml:"paper"`
	Authors        []types.AuthorResult `json:"authors" yaml:"authors"`
	RemovedAuthors []string             `json:"removed_authors,omitempty" yaml:"removed_authors,omitempty"`
	ScholarSummary string               `json:"scholar_summary" yaml:"scholar_summary"`
	Text           string               `json:"text" yaml:"text"`
}

// ExportYAML writes every cached run to dir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, dir string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "export.yaml"), data, 0o644)
}

// ExportJSON writes every cached run to dir/export.json.
func (s *Store) ExportJSON(ctx context.Context, dir string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "export.json"), data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing runs for export: %w", err)
	}

	entries := make([]ExportEntry, 0, len(runs))
	for _, run := range runs {
		brief, err := s.LoadRun(ctx, run.Title)
		if err != nil {
			return nil, fmt.Errorf("loading run %q for export: %w", run.Title, err)
		}
		if brief == nil {
			continue
		}
		entries = append(entries, ExportEntry{
			Key:            run.Key,
			Paper:          brief.Paper,
			Authors:        brief.Authors,
			RemovedAuthors: brief.RemovedAuthors,
			ScholarSummary: brief.ScholarSummary,
			Text:           brief.Text,
		})
	}
	return entries, nil
}
