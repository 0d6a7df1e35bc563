package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SignalTypeSignal = "signal"
	SignalTypeNoise  = "noise"

	ActionRead   = "read"
	ActionSave   = "save"
	ActionIgnore = "ignore"

	LabelOpportunity    = "opportunity"
	LabelDecisionNeeded = "decision_needed"
	LabelLowPriority    = "low_priority"
	LabelIgnore         = "ignore"
)

// EmailLabels lists every accepted email label in display order.
var EmailLabels = []string{LabelOpportunity, LabelDecisionNeeded, LabelLowPriority, LabelIgnore}

// Signal is one classified piece of input text owned by a user.
type Signal struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_signals_user_created,priority:1" json:"user_id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	Category        string    `gorm:"size:100;not null" json:"category"`
	Score           int       `gorm:"not null" json:"score"`
	AINotes         *string   `gorm:"type:text" json:"ai_notes"`
	SignalType      string    `gorm:"size:50;not null" json:"signal_type"`
	SuggestedAction *string   `gorm:"size:50" json:"suggested_action"`
	EmailLabel      *string   `gorm:"size:100" json:"email_label"`
	UserConfirmed   bool      `gorm:"default:false" json:"user_confirmed"`
	CreatedAt       time.Time `gorm:"index:idx_signals_user_created,priority:2" json:"created_at"`
	User            User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Signal) TableName() string {
	return "signals"
}

func (s *Signal) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsEmail reports whether the signal carries an email label.
func (s *Signal) IsEmail() bool {
	return s.EmailLabel != nil && *s.EmailLabel != ""
}
