package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"feedtriage/internal/domain"
)

type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
	calls   int
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls++
	f.gotName = name
	f.gotArgs = args
	return f.stdout, f.stderr, f.err
}

func testBatch() []domain.FeedRecord {
	return []domain.FeedRecord{
		{"id": "p1", "source": "mastodon", "author": "ann", "content": "it crashes on login"},
	}
}

func TestCLIClassifierSuccess(t *testing.T) {
	runner := &fakeRunner{
		stdout: []byte(`{"result": "{\"items\": [{\"id\": \"p1\", \"label\": \"bug\", \"confidence\": 0.9, \"reason\": \"crash\"}]}"}`),
	}
	c := &CLIClassifier{Bin: "labeler", Model: "m-1", Effort: "high", Runner: runner}

	results, err := c.Classify(context.Background(), testBatch())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Label != "bug" {
		t.Fatalf("unexpected results: %+v", results)
	}

	if runner.gotName != "labeler" {
		t.Fatalf("binary = %s", runner.gotName)
	}
	args := strings.Join(runner.gotArgs[:len(runner.gotArgs)-1], " ")
	if args != "--output-format json --model m-1 --reasoning-effort high" {
		t.Fatalf("unexpected args: %s", args)
	}
	instruction := runner.gotArgs[len(runner.gotArgs)-1]
	if !strings.Contains(instruction, "it crashes on login") {
		t.Fatal("instruction must be the final positional argument")
	}
}

func TestCLIClassifierOmitsReasoningFlagWhenOff(t *testing.T) {
	runner := &fakeRunner{
		stdout: []byte(`{"result": "{\"items\": []}"}`),
	}
	c := &CLIClassifier{Effort: EffortOff, Runner: runner}

	if _, err := c.Classify(context.Background(), testBatch()); err != nil {
		t.Fatal(err)
	}
	for _, arg := range runner.gotArgs {
		if arg == "--reasoning-effort" {
			t.Fatal("reasoning flag must be omitted when effort is off")
		}
	}
	if runner.gotName != DefaultBin {
		t.Fatalf("expected default binary, got %s", runner.gotName)
	}
}

func TestCLIClassifierNonZeroExit(t *testing.T) {
	runner := &fakeRunner{
		stderr: []byte("authentication failed"),
		err:    errors.New("exit status 1"),
	}
	c := &CLIClassifier{Runner: runner}

	_, err := c.Classify(context.Background(), testBatch())
	var invErr *ToolInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ToolInvocationError, got %v", err)
	}
	if !strings.Contains(invErr.Stderr, "authentication failed") {
		t.Fatalf("stderr not captured: %q", invErr.Stderr)
	}
}

func TestCLIClassifierEnvelopeHandling(t *testing.T) {
	cases := []struct {
		name    string
		stdout  string
		wantErr bool
	}{
		{"text fallback", `{"text": "{\"items\": []}"}`, false},
		{"ansi decorated envelope", "\x1b[2m{\"result\": \"{\\\"items\\\": []}\"}\x1b[0m", false},
		{"empty output", "", true},
		{"not an envelope", "plain text progress output", true},
		{"envelope without result", `{"status": "done"}`, true},
	}
	for _, tc := range cases {
		runner := &fakeRunner{stdout: []byte(tc.stdout)}
		c := &CLIClassifier{Runner: runner}
		_, err := c.Classify(context.Background(), testBatch())
		if tc.wantErr {
			var respErr *ToolResponseError
			if !errors.As(err, &respErr) {
				t.Errorf("%s: expected ToolResponseError, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}
