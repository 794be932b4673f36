// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm turns scholar profiles and web search results into prose
// through a chat-completions API.
package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Backend abstracts the chat-completions API so tests can supply a mock.
// Each call sends one system instruction and one user prompt and returns
// the completion text.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// backoffBase controls the base duration for exponential backoff between
// failed completion calls. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// CompleteWithRetry calls the backend with exponential backoff on errors.
func CompleteWithRetry(ctx context.Context, backend Backend, system, user string, maxRetries int) (string, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := backend.Complete(ctx, system, user)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
