package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedtriage/internal/domain"
)

type flakyClassifier struct {
	failures int
	calls    int
	err      error
}

func (f *flakyClassifier) Classify(context.Context, []domain.FeedRecord) ([]domain.ClassificationResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []domain.ClassificationResult{{ID: "p1", Label: "bug"}}, nil
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	flaky := &flakyClassifier{failures: 2, err: errors.New("transient")}
	var waits []time.Duration
	r := &Retry{Next: flaky, Sleep: func(d time.Duration) { waits = append(waits, d) }}

	results, err := r.Classify(context.Background(), testBatch())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected results from third attempt, got %v", results)
	}
	if flaky.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", flaky.calls)
	}
	if len(waits) != 2 || waits[0] != 500*time.Millisecond || waits[1] != 1000*time.Millisecond {
		t.Fatalf("expected linear backoff [500ms 1s], got %v", waits)
	}
}

func TestRetryExhaustionPropagatesLastError(t *testing.T) {
	cause := errors.New("still broken")
	flaky := &flakyClassifier{failures: 10, err: cause}
	var waits []time.Duration
	r := &Retry{Next: flaky, Sleep: func(d time.Duration) { waits = append(waits, d) }}

	_, err := r.Classify(context.Background(), testBatch())
	if !errors.Is(err, cause) {
		t.Fatalf("expected final error, got %v", err)
	}
	if flaky.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", flaky.calls)
	}
	if len(waits) != 2 {
		t.Fatalf("no wait after the final attempt: %v", waits)
	}
}

func TestRetryNoSleepOnFirstSuccess(t *testing.T) {
	flaky := &flakyClassifier{}
	slept := false
	r := &Retry{Next: flaky, Sleep: func(time.Duration) { slept = true }}

	if _, err := r.Classify(context.Background(), testBatch()); err != nil {
		t.Fatal(err)
	}
	if slept || flaky.calls != 1 {
		t.Fatalf("expected single attempt without backoff (calls=%d slept=%v)", flaky.calls, slept)
	}
}
