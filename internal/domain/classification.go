package domain

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	LabelMention  = "mention"
	LabelBug      = "bug"
	LabelLove     = "love"
	LabelQuestion = "question"
	LabelOther    = "other"

	// LabelUnlabeled is a stats bucket only, never written to a record.
	LabelUnlabeled = "unlabeled"
)

var validLabels = map[string]bool{
	LabelMention:  true,
	LabelBug:      true,
	LabelLove:     true,
	LabelQuestion: true,
	LabelOther:    true,
}

// ValidLabels lists the categories a classifier may assign, in prompt order.
func ValidLabels() []string {
	return []string{LabelMention, LabelBug, LabelLove, LabelQuestion, LabelOther}
}

// NormalizeLabel lower-cases a classifier-provided label and reports whether
// it is one of the valid categories.
func NormalizeLabel(label string) (string, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	return label, validLabels[label]
}

// ClassificationResult is one item echoed back by the classifier. It is
// untrusted: the label may be garbage and the confidence may not even be a
// number, so the raw confidence is kept until merge-time clamping.
type ClassificationResult struct {
	ID         string
	Label      string
	Confidence json.RawMessage
	Reason     string
}

// ClassificationField builds the object stored under a record's
// classification field. Confidence must already be clamped (float64) or nil.
func ClassificationField(label string, confidence any, reason string, at time.Time) map[string]any {
	return map[string]any{
		"label":        label,
		"confidence":   confidence,
		"reason":       reason,
		"classifiedAt": at.UTC().Format(time.RFC3339),
	}
}

// StatsReport is the aggregate artifact written alongside the feed.
type StatsReport struct {
	GeneratedAt  string         `json:"generatedAt"`
	Total        int            `json:"total"`
	Counts       map[string]int `json:"counts"`
	PercentOther float64        `json:"percentOther"`
}
