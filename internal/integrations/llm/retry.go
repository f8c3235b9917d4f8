package llm

import (
	"context"
	"log"
	"time"

	"feedtriage/internal/domain"
)

const (
	defaultAttempts = 3
	backoffStep     = 500 * time.Millisecond
)

// Retry wraps a classifier with a bounded attempt loop: up to Attempts total
// attempts per batch, waiting attempt x 500ms between them. Exhaustion
// propagates the final error.
type Retry struct {
	Next     Classifier
	Attempts int // defaults to 3

	// Sleep defaults to time.Sleep; tests record the waits instead.
	Sleep func(time.Duration)
}

func (r *Retry) Classify(ctx context.Context, batch []domain.FeedRecord) ([]domain.ClassificationResult, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = defaultAttempts
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		results, err := r.Next.Classify(ctx, batch)
		if err == nil {
			return results, nil
		}
		lastErr = err
		if attempt < attempts {
			wait := time.Duration(attempt) * backoffStep
			log.Printf("classify attempt=%d/%d failed: %v (retrying in %s)", attempt, attempts, err, wait)
			sleep(wait)
		}
	}
	return nil, lastErr
}
