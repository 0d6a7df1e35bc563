package dashboard

import "github.com/ahmetcoskunkizilkaya/signalforge/internal/models"

// --- DTOs ---

type Distribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type CompassResponse struct {
	TopSignals   []models.Signal `json:"topSignals"`
	Distribution Distribution    `json:"distribution"`
	FocusAreas   []string        `json:"focusAreas"`
	Total        int             `json:"total"`
}

type FocusResponse struct {
	Signals       []models.Signal `json:"signals"`
	Count         int             `json:"count"`
	LowValueShare int             `json:"lowValueShare"`
}

type InboxEmail struct {
	ID            string `json:"id"`
	Subject       string `json:"subject"`
	Sender        string `json:"sender"`
	Preview       string `json:"preview"`
	AILabel       string `json:"aiLabel"`
	Timestamp     string `json:"timestamp"`
	UserConfirmed bool   `json:"userConfirmed"`
}

type InboxResponse struct {
	Emails       []InboxEmail `json:"emails"`
	TotalSignals int          `json:"totalSignals"`
}

type BlindSpotRequest struct {
	Goals []string `json:"goals"`
}

type MissingArea struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Priority         string   `json:"priority"`
	SuggestedActions []string `json:"suggestedActions"`
}

type BlindSpotResponse struct {
	Goals           []string      `json:"goals"`
	MissingAreas    []MissingArea `json:"missingAreas"`
	Recommendations []string      `json:"recommendations"`
}

// SortOrder selects how the focus view orders signals.
type SortOrder string

const (
	SortDate    SortOrder = "date"
	SortScore   SortOrder = "score"
	SortUrgency SortOrder = "urgency"
	SortTopic   SortOrder = "topic"
)
