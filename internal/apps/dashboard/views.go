package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
)

const (
	highScore      = 70
	mediumScore    = 40
	defaultTopN    = 3
	maxTopN        = 50
	maxGoals       = 3
	previewRunes   = 150
	unknownSender  = "unknown@email.com"
	missingSubject = "No subject"
)

// The views below take the caller's full signal list, newest first, and
// derive their projection in memory.

// Compass builds the weekly summary: top signals, value distribution and
// focus areas.
func Compass(signals []models.Signal, limit int) CompassResponse {
	if limit <= 0 {
		limit = defaultTopN
	}
	limit = min(limit, maxTopN)

	top := make([]models.Signal, len(signals))
	copy(top, signals)
	// stable: equal scores stay newest first
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > limit {
		top = top[:limit]
	}

	return CompassResponse{
		TopSignals:   top,
		Distribution: distribution(signals),
		FocusAreas:   categories(signals),
		Total:        len(signals),
	}
}

// Focus filters and orders signals for the focus alerts view.
func Focus(signals []models.Signal, signalsOnly bool, order SortOrder) (FocusResponse, error) {
	filtered := make([]models.Signal, 0, len(signals))
	noise := 0
	for _, s := range signals {
		if s.SignalType == models.SignalTypeNoise {
			noise++
		}
		if signalsOnly && s.SignalType != models.SignalTypeSignal {
			continue
		}
		filtered = append(filtered, s)
	}

	switch order {
	case SortDate, "":
		// already newest first
	case SortScore, SortUrgency:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Score > filtered[j].Score })
	case SortTopic:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Category) < strings.ToLower(filtered[j].Category)
		})
	default:
		return FocusResponse{}, apperror.Validationf("sort", "sort must be one of: %s, %s, %s, %s", SortDate, SortScore, SortUrgency, SortTopic)
	}

	return FocusResponse{
		Signals:       filtered,
		Count:         len(filtered),
		LowValueShare: percent(noise, len(signals)),
	}, nil
}

// Inbox projects email-labelled signals into inbox rows.
func Inbox(signals []models.Signal, now time.Time) InboxResponse {
	emails := make([]InboxEmail, 0)
	for _, s := range signals {
		if !s.IsEmail() {
			continue
		}
		lines := strings.Split(s.Content, "\n")

		subject := strings.TrimSpace(lines[0])
		if subject == "" {
			subject = missingSubject
		}

		preview := truncate(strings.Join(lines[1:], " "), previewRunes)
		if strings.TrimSpace(preview) == "" {
			preview = truncate(s.Content, previewRunes)
		}

		emails = append(emails, InboxEmail{
			ID:            s.ID.String(),
			Subject:       subject,
			Sender:        sender(s.AINotes),
			Preview:       preview,
			AILabel:       *s.EmailLabel,
			Timestamp:     relativeTime(s.CreatedAt, now),
			UserConfirmed: s.UserConfirmed,
		})
	}
	return InboxResponse{Emails: emails, TotalSignals: len(signals)}
}

// BlindSpots returns the fixed gap analysis for one to three goals.
func BlindSpots(goals []string) (BlindSpotResponse, error) {
	valid := make([]string, 0, len(goals))
	for _, g := range goals {
		if g = strings.TrimSpace(g); g != "" {
			valid = append(valid, g)
		}
	}
	if len(valid) == 0 {
		return BlindSpotResponse{}, apperror.Validation("goals", "Please enter at least one goal to analyze")
	}
	if len(valid) > maxGoals {
		return BlindSpotResponse{}, apperror.Validationf("goals", "goals must contain at most %d items", maxGoals)
	}

	return BlindSpotResponse{
		Goals:           valid,
		MissingAreas:    missingAreaCatalogue(),
		Recommendations: append([]string(nil), recommendationCatalogue...),
	}, nil
}

func distribution(signals []models.Signal) Distribution {
	var high, medium, low int
	for _, s := range signals {
		switch {
		case s.Score >= highScore:
			high++
		case s.Score >= mediumScore:
			medium++
		default:
			low++
		}
	}
	total := len(signals)
	return Distribution{
		High:   percent(high, total),
		Medium: percent(medium, total),
		Low:    percent(low, total),
	}
}

func categories(signals []models.Signal) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, s := range signals {
		if s.Category == "" || seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		out = append(out, s.Category)
	}
	return out
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// sender reads the address out of notes shaped like "Email from x@y.z".
func sender(notes *string) string {
	if notes == nil {
		return unknownSender
	}
	parts := strings.Split(*notes, "from")
	if len(parts) < 2 {
		return unknownSender
	}
	if s := strings.TrimSpace(parts[1]); s != "" {
		return s
	}
	return unknownSender
}

func relativeTime(created, now time.Time) string {
	hours := int(now.Sub(created).Hours())
	days := hours / 24
	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
