// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "author-brief/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScholarConfig holds settings for the Semantic Scholar lookup stage.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline"`

	// TopPapers is the number of most-cited papers kept per author (default 5).
	TopPapers int `json:"top_papers" yaml:"top_papers"`

	// CitationThreshold is the minimum citation count, measured after
	// subtracting the looked-up paper's own citations, an author needs to
	// be kept in the report (default 1000).
	CitationThreshold int `json:"citation_threshold" yaml:"citation_threshold"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// WebSearchConfig holds settings for the per-author web search stage.
type WebSearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of web results fetched per author (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Depth selects the Tavily search depth: basic or advanced (default basic).
	Depth string `json:"depth" yaml:"depth"`

	// APIKey is the Tavily API key. Usually supplied via TAVILY_API_KEY.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// LLMConfig holds settings for stages that call the chat-completions API.
type LLMConfig struct {
	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens caps the completion length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// APIKey is the authentication key. Usually supplied via OPENAI_API_KEY.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// OutputConfig holds settings for report writing.
type OutputConfig struct {
	// Dir is the base directory for reports. Each run writes to
	// Dir/<sanitized paper title>/.
	Dir string `json:"dir" yaml:"dir"`

	// WriteIntermediate controls whether per-stage artifacts (scholar
	// profiles, raw search results, per-author summaries) are written
	// alongside the final report.
	WriteIntermediate bool `json:"write_intermediate" yaml:"write_intermediate"`
}

// CacheConfig holds settings for the local result cache.
type CacheConfig struct {
	// Enabled controls whether completed runs are stored and reused.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding the SQLite cache database.
	Dir string `json:"dir" yaml:"dir"`
}

// Config groups all stage configurations for the pipeline.
type Config struct {
	// Paper is the default paper title when the summarize command is given
	// none on the command line.
	Paper string `json:"paper,omitempty" yaml:"paper,omitempty"`

	// Interactive prompts for the paper title on stdin and re-prompts after
	// a failed lookup.
	Interactive bool `json:"interactive" yaml:"interactive"`

	Scholar   ScholarConfig   `json:"scholar" yaml:"scholar"`
	WebSearch WebSearchConfig `json:"websearch" yaml:"websearch"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
}
