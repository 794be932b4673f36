// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a .env file and the process
// environment. Values already present in the environment win over the
// .env file, so exported variables override checked-in defaults.
//
// Recognized keys: OPENAI_API_KEY, TAVILY_API_KEY, SEMANTIC_SCHOLAR_API_KEY.
package secrets

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names used by the pipeline.
const (
	KeyOpenAI          = "OPENAI_API_KEY"
	KeyTavily          = "TAVILY_API_KEY"
	KeySemanticScholar = "SEMANTIC_SCHOLAR_API_KEY"
)

// knownKeys lists the variables Load exposes.
var knownKeys = []string{KeyOpenAI, KeyTavily, KeySemanticScholar}

// Load reads the .env file at path (when it exists) into the process
// environment without overriding variables that are already set, then
// returns the recognized keys as a map. A missing .env file is not an
// error; a malformed one is.
func Load(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	secrets := make(map[string]string)
	for _, key := range knownKeys {
		if v := os.Getenv(key); v != "" {
			secrets[key] = v
		}
	}
	return secrets, nil
}

// Require returns the values for the named keys, or an error listing every
// key that is missing. Callers use it to fail before any network call.
func Require(secrets map[string]string, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if secrets[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required secrets %v: set them in .env or the environment", missing)
	}
	return nil
}
