package llm

import (
	"context"
	"time"
)

const (
	maxRetries = 3
	retryDelay = time.Second
)

// GenerateWithRetry calls Generate with a bounded retry budget: up to
// three attempts with linearly increasing backoff (1s, 2s). The last
// error is surfaced when the budget is exhausted.
func GenerateWithRetry(ctx context.Context, p Provider, prompt string, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		text, err := p.Generate(ctx, prompt, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if attempt < maxRetries-1 {
			select {
			case <-time.After(retryDelay * time.Duration(attempt+1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", lastErr
}
