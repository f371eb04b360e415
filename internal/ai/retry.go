package ai

import (
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// shouldRetry reports whether a provider error looks transient enough
// to be worth one immediate in-call retry. This is separate from the
// client-side retry policy, which only ever reacts to response shape.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500 || apiErr.HTTPStatusCode == 429
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "502 bad gateway") ||
		strings.Contains(errMsg, "503 service unavailable") ||
		strings.Contains(errMsg, "504 gateway timeout") ||
		strings.Contains(errMsg, "connection reset by peer")
}
