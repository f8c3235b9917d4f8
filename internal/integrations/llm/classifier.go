// Package llm turns batches of feed records into classification results by
// way of an external text-generation tool. The default provider shells out
// to a CLI tool; Anthropic and Gemini API providers satisfy the same
// interface, as does the stub used in tests.
package llm

import (
	"context"
	"fmt"
	"strings"

	"feedtriage/internal/domain"
)

// Classifier labels one batch of feed records.
type Classifier interface {
	Classify(ctx context.Context, batch []domain.FeedRecord) ([]domain.ClassificationResult, error)
}

// ToolInvocationError reports that the external tool could not be invoked or
// exited non-zero. Stderr carries whatever the tool printed on the way down.
type ToolInvocationError struct {
	Stderr string
	Err    error
}

func (e *ToolInvocationError) Error() string {
	if strings.TrimSpace(e.Stderr) != "" {
		return fmt.Sprintf("classifier tool failed: %v (stderr: %s)", e.Err, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("classifier tool failed: %v", e.Err)
}

func (e *ToolInvocationError) Unwrap() error { return e.Err }

// ToolResponseError reports empty or unparsable tool output.
type ToolResponseError struct {
	Output string
	Err    error
}

func (e *ToolResponseError) Error() string {
	return fmt.Sprintf("classifier returned unusable output: %v", e.Err)
}

func (e *ToolResponseError) Unwrap() error { return e.Err }

// MalformedResponseError reports a parsable response that is missing the
// expected items array.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed classifier response: " + e.Reason
}
