package llm

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"

	"feedtriage/internal/domain"
)

const (
	DefaultBin   = "claude"
	DefaultModel = "claude-sonnet-4-5-20250929"

	// EffortOff is the sentinel that omits the reasoning flag entirely.
	EffortOff     = "off"
	DefaultEffort = "medium"
)

// CommandRunner runs one external command to completion with stdout and
// stderr captured in full.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CLIClassifier invokes an external classification tool once per batch. The
// tool is expected to print a JSON envelope whose result (or text) field
// holds the items document, possibly ANSI-decorated.
type CLIClassifier struct {
	Bin    string
	Model  string
	Effort string

	// Runner defaults to a real subprocess runner; tests stub it.
	Runner CommandRunner
}

func (c *CLIClassifier) Classify(ctx context.Context, batch []domain.FeedRecord) ([]domain.ClassificationResult, error) {
	instruction, err := BuildInstruction(batch)
	if err != nil {
		return nil, err
	}

	args := []string{"--output-format", "json"}
	if c.Model != "" {
		args = append(args, "--model", c.Model)
	}
	if c.Effort != "" && c.Effort != EffortOff {
		args = append(args, "--reasoning-effort", c.Effort)
	}
	args = append(args, instruction)

	bin := c.Bin
	if bin == "" {
		bin = DefaultBin
	}
	runner := c.Runner
	if runner == nil {
		runner = execRunner{}
	}

	stdout, stderr, err := runner.Run(ctx, bin, args...)
	if err != nil {
		return nil, &ToolInvocationError{Stderr: string(stderr), Err: err}
	}

	resultText, err := extractResultText(stdout)
	if err != nil {
		return nil, err
	}
	return ParseItems(resultText)
}

// extractResultText pulls the result (fallback: text) field out of the
// tool's JSON envelope.
func extractResultText(stdout []byte) (string, error) {
	clean := strings.TrimSpace(stripANSI(string(stdout)))
	if clean == "" {
		return "", &ToolResponseError{Err: errors.New("empty tool output")}
	}
	if !gjson.Valid(clean) {
		return "", &ToolResponseError{Output: clean, Err: errors.New("tool output is not a JSON envelope")}
	}
	result := gjson.Get(clean, "result")
	if !result.Exists() {
		result = gjson.Get(clean, "text")
	}
	if !result.Exists() {
		return "", &ToolResponseError{Output: clean, Err: errors.New("envelope has neither result nor text")}
	}
	return result.String(), nil
}
