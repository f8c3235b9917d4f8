package slacknotify

import (
	"testing"

	"feedtriage/internal/domain"
)

func TestSummary(t *testing.T) {
	report := domain.StatsReport{
		Total:        5,
		Counts:       map[string]int{"bug": 2, "love": 1, "other": 1, "unlabeled": 1},
		PercentOther: 20,
	}
	got := Summary(report)
	want := "Classification run complete: 5 records (bug=2 love=1 other=1 unlabeled=1), other 20.00%"
	if got != want {
		t.Fatalf("Summary = %q, want %q", got, want)
	}
}

func TestSummaryEmptyFeed(t *testing.T) {
	got := Summary(domain.StatsReport{})
	if got != "Classification run complete: 0 records (empty feed), other 0.00%" {
		t.Fatalf("Summary = %q", got)
	}
}
