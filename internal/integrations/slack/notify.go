// Package slacknotify posts run summaries to a Slack channel when one is
// configured. Failures here never fail the run.
package slacknotify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slack-go/slack"

	"feedtriage/internal/domain"
)

// PostStatsSummary sends a one-line summary of a finished run.
func PostStatsSummary(botToken, channelID string, report domain.StatsReport) error {
	api := slack.New(botToken)
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(Summary(report), false))
	return err
}

// Summary renders the stats report as a single human-readable line.
func Summary(report domain.StatsReport) string {
	return fmt.Sprintf("Classification run complete: %d records (%s), other %.2f%%",
		report.Total, formatCounts(report.Counts), report.PercentOther)
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "empty feed"
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s=%d", label, counts[label]))
	}
	return strings.Join(parts, " ")
}
