// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/author-brief/internal/llm"
	"github.com/pdiddy/author-brief/internal/scholar"
	"github.com/pdiddy/author-brief/internal/secrets"
	"github.com/pdiddy/author-brief/internal/store"
	"github.com/pdiddy/author-brief/internal/summarize"
	"github.com/pdiddy/author-brief/internal/websearch"
	"github.com/pdiddy/author-brief/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [paper title...]",
	Short: "Build a per-author biography brief for a paper",
	Long: `Summarize resolves a paper title on Semantic Scholar, fetches each
author's profile, searches the web for each author, and writes an LLM
biography brief as text and HTML under the output directory.

With --interactive the title is read from stdin and a failed lookup
re-prompts instead of exiting.`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("paper", "", "paper title to look up")
	summarizeCmd.Flags().Bool("interactive", false, "prompt for the paper title on stdin")
	summarizeCmd.Flags().String("model", "", "LLM model identifier")
	summarizeCmd.Flags().Float64("temperature", 0.3, "LLM sampling temperature")
	summarizeCmd.Flags().Int("top-papers", 5, "most-cited papers kept per author")
	summarizeCmd.Flags().Int("citation-threshold", 1000, "citations an author needs beyond the paper's own count")
	summarizeCmd.Flags().Int("web-results", 5, "web results fetched per author")
	summarizeCmd.Flags().String("output-dir", "", "base directory for reports")
	summarizeCmd.Flags().Bool("no-cache", false, "skip the local result cache")
	summarizeCmd.Flags().Bool("json", false, "print a machine-readable run summary on stdout")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg := summarizeConfig(cmd, args)

	if err := secrets.Require(loadedSecrets, secrets.KeyOpenAI, secrets.KeyTavily); err != nil {
		return err
	}

	pipeline, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	title := cfg.Paper
	reader := bufio.NewReader(os.Stdin)
	for {
		if cfg.Interactive && strings.TrimSpace(title) == "" {
			fmt.Fprint(os.Stderr, "Enter the paper title: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading paper title: %w", err)
			}
			title = strings.TrimSpace(line)
		}
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("no paper title given: pass one as an argument, use --paper, or set 'paper' in the config")
		}

		brief, err := pipeline.Run(cmd.Context(), title, cfg, os.Stderr)
		if err != nil {
			if errors.Is(err, scholar.ErrPaperNotFound) {
				if cfg.Interactive {
					fmt.Fprintf(os.Stderr, "No paper found for %q. Check for typos and try again.\n", title)
					title = ""
					continue
				}
				return fmt.Errorf("%w: check the title for typos", err)
			}
			return err
		}

		report, err := summarize.WriteReport(brief, cfg.Output, os.Stderr)
		if err != nil {
			return err
		}

		jsonOut, _ := cmd.Flags().GetBool("json")
		if jsonOut {
			return printRunSummary(brief, report)
		}
		fmt.Println(brief.Text)
		return nil
	}
}

// summarizeConfig merges viper values with command-line overrides.
func summarizeConfig(cmd *cobra.Command, args []string) types.Config {
	cfg := types.Config{
		Paper:       viper.GetString("paper"),
		Interactive: viper.GetBool("interactive"),
		Scholar: types.ScholarConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("scholar.timeout"),
				UserAgent: viper.GetString("scholar.user_agent"),
			},
			TopPapers:         viper.GetInt("scholar.top_papers"),
			CitationThreshold: viper.GetInt("scholar.citation_threshold"),
			APIKey:            viper.GetString("scholar.api_key"),
		},
		WebSearch: types.WebSearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("websearch.timeout"),
				UserAgent: viper.GetString("websearch.user_agent"),
			},
			MaxResults: viper.GetInt("websearch.max_results"),
			Depth:      viper.GetString("websearch.depth"),
		},
		LLM: types.LLMConfig{
			Model:       viper.GetString("llm.model"),
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
			MaxRetries:  viper.GetInt("llm.max_retries"),
		},
		Output: types.OutputConfig{
			Dir:               viper.GetString("output.dir"),
			WriteIntermediate: viper.GetBool("output.write_intermediate"),
		},
		Cache: types.CacheConfig{
			Enabled: viper.GetBool("cache.enabled"),
			Dir:     viper.GetString("cache.dir"),
		},
	}

	if len(args) > 0 {
		cfg.Paper = strings.Join(args, " ")
	}
	flags := cmd.Flags()
	if flags.Changed("paper") {
		cfg.Paper, _ = flags.GetString("paper")
	}
	if flags.Changed("interactive") {
		cfg.Interactive, _ = flags.GetBool("interactive")
	}
	if flags.Changed("model") {
		cfg.LLM.Model, _ = flags.GetString("model")
	}
	if flags.Changed("temperature") {
		cfg.LLM.Temperature, _ = flags.GetFloat64("temperature")
	}
	if flags.Changed("top-papers") {
		cfg.Scholar.TopPapers, _ = flags.GetInt("top-papers")
	}
	if flags.Changed("citation-threshold") {
		cfg.Scholar.CitationThreshold, _ = flags.GetInt("citation-threshold")
	}
	if flags.Changed("web-results") {
		cfg.WebSearch.MaxResults, _ = flags.GetInt("web-results")
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir, _ = flags.GetString("output-dir")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	return cfg
}

// buildPipeline wires the production clients from the config and secrets.
func buildPipeline(cfg types.Config) (summarize.Pipeline, func(), error) {
	scholarKey := loadedSecrets[secrets.KeySemanticScholar]
	if scholarKey == "" {
		scholarKey = cfg.Scholar.APIKey
	}

	pipeline := summarize.Pipeline{
		Scholar: &scholar.Client{
			HTTP:   &http.Client{Timeout: cfg.Scholar.Timeout},
			APIKey: scholarKey,
			Config: cfg.Scholar,
		},
		Search: &websearch.TavilyClient{
			HTTP:   &http.Client{Timeout: cfg.WebSearch.Timeout},
			APIKey: loadedSecrets[secrets.KeyTavily],
			Config: cfg.WebSearch,
		},
		LLM: &llm.OpenAIBackend{
			APIKey: loadedSecrets[secrets.KeyOpenAI],
			Config: cfg.LLM,
		},
	}

	cleanup := func() {}
	if cfg.Cache.Enabled {
		s, err := store.Open(cfg.Cache.Dir)
		if err != nil {
			return summarize.Pipeline{}, nil, err
		}
		pipeline.Cache = s
		cleanup = func() { s.Close() }
	}
	return pipeline, cleanup, nil
}

// printRunSummary writes the --json run summary on stdout.
func printRunSummary(brief *types.Brief, report *summarize.Report) error {
	authors := make([]string, 0, len(brief.Authors))
	for _, ar := range brief.Authors {
		authors = append(authors, ar.Author.Name)
	}
	out := struct {
		Paper          string   `json:"paper"`
		Authors        []string `json:"authors"`
		RemovedAuthors []string `json:"removed_authors,omitempty"`
		TextPath       string   `json:"text_path"`
		HTMLPath       string   `json:"html_path"`
		FromCache      bool     `json:"from_cache"`
	}{
		Paper:          brief.Paper.Title,
		Authors:        authors,
		RemovedAuthors: brief.RemovedAuthors,
		TextPath:       report.TextPath,
		HTMLPath:       report.HTMLPath,
		FromCache:      brief.FromCache,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
