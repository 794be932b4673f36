// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/author-brief/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the local brief cache",
	Long: `Completed briefs are cached in a local SQLite database so repeat runs
for the same paper are served without new API calls. The cache command
lists cached runs, searches their summary text, exports them, and
clears them.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached briefs",
	RunE:  runCacheList,
}

var cacheSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search over cached summaries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCacheSearch,
}

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every cached brief to a YAML or JSON file",
	RunE:  runCacheExport,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [paper title...]",
	Short: "Delete cached briefs",
	Long: `Clear deletes the cached brief for the given paper title, or every
cached brief when no title is given.`,
	RunE: runCacheClear,
}

func init() {
	cacheSearchCmd.Flags().String("paper", "", "restrict the search to one paper title")
	cacheSearchCmd.Flags().Int("max-results", 20, "maximum number of hits")
	cacheSearchCmd.Flags().Bool("json", false, "print hits as JSON")

	cacheExportCmd.Flags().String("format", "", "export format: yaml or json (default both)")
	cacheExportCmd.Flags().String("dir", ".", "directory to write the export file to")

	cacheClearCmd.Flags().Bool("all", false, "delete every cached brief")

	cacheCmd.AddCommand(cacheListCmd, cacheSearchCmd, cacheExportCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openStore() (*store.Store, error) {
	return store.Open(viper.GetString("cache.dir"))
}

func runCacheList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("cache is empty")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tAUTHORS\tCITATIONS\tTITLE")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			run.CreatedAt.Format("2006-01-02 15:04"), run.Authors, run.CitationCount, run.Title)
	}
	return tw.Flush()
}

func runCacheSearch(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	title, _ := cmd.Flags().GetString("paper")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	hits, err := s.Search(cmd.Context(), strings.Join(args, " "), title, maxResults)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, h := range hits {
		label := h.Kind
		if h.Author != "" {
			label += "/" + h.Author
		}
		fmt.Printf("%s (%s)\n  %s\n", h.PaperTitle, label, h.Snippet)
	}
	return nil
}

func runCacheExport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	dir, _ := cmd.Flags().GetString("dir")
	format, _ := cmd.Flags().GetString("format")

	formats := []string{"yaml", "json"}
	if format != "" {
		if format != "yaml" && format != "json" {
			return fmt.Errorf("unknown export format %q: use yaml or json", format)
		}
		formats = []string{format}
	}
	for _, f := range formats {
		if f == "yaml" {
			err = s.ExportYAML(cmd.Context(), dir)
		} else {
			err = s.ExportJSON(cmd.Context(), dir)
		}
		if err != nil {
			return err
		}
		fmt.Printf("exported cache to %s\n", filepath.Join(dir, "export."+f))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	all, _ := cmd.Flags().GetBool("all")
	switch {
	case all:
		if err := s.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("cleared all cached briefs")
	case len(args) > 0:
		title := strings.Join(args, " ")
		if err := s.DeleteRun(cmd.Context(), title); err != nil {
			return err
		}
		fmt.Printf("deleted cached brief for %q\n", title)
	default:
		return fmt.Errorf("pass a paper title or --all")
	}
	return nil
}
