package dto

import (
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/classifier"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
)

type CreateSignalRequest struct {
	Content         string  `json:"content" validate:"required,notblank"`
	Category        string  `json:"category" validate:"required,notblank,max=100"`
	Score           *int    `json:"score" validate:"required,min=0,max=100"`
	AINotes         *string `json:"ai_notes,omitempty"`
	SignalType      string  `json:"signal_type" validate:"required,oneof=signal noise"`
	SuggestedAction *string `json:"suggested_action,omitempty" validate:"omitempty,oneof=read save ignore"`
	EmailLabel      *string `json:"email_label,omitempty" validate:"omitempty,oneof=opportunity decision_needed low_priority ignore"`
	UserConfirmed   bool    `json:"user_confirmed,omitempty"`
}

type BatchCreateRequest struct {
	Signals []CreateSignalRequest `json:"signals"`
}

type ContentRequest struct {
	Content string `json:"content"`
}

type LabelRequest struct {
	EmailLabel *string `json:"email_label,omitempty" validate:"omitempty,oneof=opportunity decision_needed low_priority ignore"`
}

type SignalResponse struct {
	Signal models.Signal `json:"signal"`
}

type SignalListResponse struct {
	Signals []models.Signal `json:"signals"`
}

type BatchCreateResponse struct {
	Signals      []models.Signal `json:"signals"`
	CreatedCount int             `json:"createdCount"`
}

type IngestResponse struct {
	Signals      []models.Signal `json:"signals"`
	CreatedCount int             `json:"createdCount"`
	SignalCount  int             `json:"signalCount"`
}

type DeleteSignalsResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type ClassifyResponse struct {
	Signals     []classifier.Record `json:"signals"`
	SignalCount int                 `json:"signalCount"`
}

// RequestsFromRecords converts classifier output into create payloads. The
// classifier summary is kept as the signal's notes.
func RequestsFromRecords(records []classifier.Record) []CreateSignalRequest {
	reqs := make([]CreateSignalRequest, len(records))
	for i, r := range records {
		score := r.Score
		summary := r.Summary
		action := r.SuggestedAction
		reqs[i] = CreateSignalRequest{
			Content:         r.Content,
			Category:        r.Category,
			Score:           &score,
			AINotes:         &summary,
			SignalType:      r.SignalType,
			SuggestedAction: &action,
			EmailLabel:      r.EmailLabel,
		}
	}
	return reqs
}
