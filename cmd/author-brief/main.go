// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the author-brief CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/author-brief/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .env and the environment at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the author-brief CLI.
var rootCmd = &cobra.Command{
	Use:   "author-brief",
	Short: "Per-author biography briefs for academic papers",
	Long: `author-brief looks up a paper on Semantic Scholar, searches the web for
each of its authors, and uses an LLM to write a concise biography of every
author: affiliations, research focus, citation record, and notable work.

The summarize command runs the whole pipeline and writes the brief as text
and HTML. Completed briefs are cached locally; the cache command lists,
searches, and exports them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".env")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./author-brief.yaml or ~/.config/author-brief/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("author-brief")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "author-brief"))
		}
	}

	viper.SetEnvPrefix("AUTHOR_BRIEF")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("interactive", false)
	viper.SetDefault("scholar.timeout", 30*time.Second)
	viper.SetDefault("scholar.user_agent", "author-brief/0.1")
	viper.SetDefault("scholar.top_papers", 5)
	viper.SetDefault("scholar.citation_threshold", 1000)
	viper.SetDefault("websearch.timeout", 30*time.Second)
	viper.SetDefault("websearch.user_agent", "author-brief/0.1")
	viper.SetDefault("websearch.max_results", 5)
	viper.SetDefault("websearch.depth", "basic")
	viper.SetDefault("llm.model", "gpt-4o")
	viper.SetDefault("llm.temperature", 0.3)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.max_retries", 3)
	viper.SetDefault("output.dir", "output")
	viper.SetDefault("output.write_intermediate", true)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", "cache")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
