// Package classifier turns pasted feed text into scored signal records using
// fixed keyword rules. It is deterministic and keeps input order.
package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
)

const (
	baseScore     = 50
	valueBonus    = 30
	lengthBonus   = 10
	urgencyBonus  = 15
	minScore      = 20
	maxScore      = 100
	longLineRunes = 100
	previewRunes  = 200

	CategoryImportant = "Important"
	CategoryGeneral   = "General"

	SummarySignal = "High-value content requiring attention"
	SummaryNoise  = "Low-priority content, can be reviewed later"
)

var (
	highValueKeywords = []string{"funding", "investor", "opportunity", "urgent", "important", "meeting", "deadline", "contract"}
	urgencyKeywords   = []string{"urgent", "asap"}

	opportunityKeywords = []string{"investor", "funding", "series"}
	decisionKeywords    = []string{"urgent", "deadline", "decision"}
	lowPriorityKeywords = []string{"newsletter", "digest", "webinar"}
)

// Record is the classification of a single input line.
type Record struct {
	Content         string  `json:"content"`
	Preview         string  `json:"preview"`
	SignalType      string  `json:"signal_type"`
	Score           int     `json:"score"`
	Category        string  `json:"category"`
	Summary         string  `json:"summary"`
	SuggestedAction string  `json:"suggested_action"`
	EmailLabel      *string `json:"email_label,omitempty"`
}

// IsSignal reports whether the record was classified as high value.
func (r Record) IsSignal() bool {
	return r.SignalType == models.SignalTypeSignal
}

// Classify emits one record per non-blank line of text.
func Classify(text string) []Record {
	lines := strings.Split(text, "\n")
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		records = append(records, ClassifyLine(trimmed))
	}
	return records
}

// ClassifyLine scores one already-trimmed line.
func ClassifyLine(line string) Record {
	lower := strings.ToLower(line)
	highValue := containsAny(lower, highValueKeywords)

	score := baseScore
	if highValue {
		score += valueBonus
	}
	if utf8.RuneCountInString(line) > longLineRunes {
		score += lengthBonus
	}
	if containsAny(lower, urgencyKeywords) {
		score += urgencyBonus
	}
	score = clamp(score, minScore, maxScore)

	rec := Record{
		Content:         line,
		Preview:         truncate(line, previewRunes),
		Score:           score,
		SignalType:      models.SignalTypeNoise,
		Category:        CategoryGeneral,
		Summary:         SummaryNoise,
		SuggestedAction: models.ActionIgnore,
	}
	if highValue {
		rec.SignalType = models.SignalTypeSignal
		rec.Category = CategoryImportant
		rec.Summary = SummarySignal
		rec.SuggestedAction = models.ActionRead
	}
	if IsEmail(lower) {
		label := EmailLabel(lower)
		rec.EmailLabel = &label
	}
	return rec
}

// IsEmail reports whether a lower-cased line looks like it came from an email.
func IsEmail(lower string) bool {
	return strings.Contains(lower, "email from") ||
		strings.HasPrefix(lower, "subject:") ||
		(strings.Contains(lower, "subject:") && strings.Contains(lower, "@"))
}

// EmailLabel picks the label for a lower-cased email line. First match wins.
func EmailLabel(lower string) string {
	switch {
	case containsAny(lower, opportunityKeywords):
		return models.LabelOpportunity
	case containsAny(lower, decisionKeywords):
		return models.LabelDecisionNeeded
	case containsAny(lower, lowPriorityKeywords):
		return models.LabelLowPriority
	default:
		return models.LabelOpportunity
	}
}

// CountSignals returns how many records are high value.
func CountSignals(records []Record) int {
	n := 0
	for _, r := range records {
		if r.IsSignal() {
			n++
		}
	}
	return n
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
