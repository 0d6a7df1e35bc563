package signals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/classifier"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/database"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultBatchMax = 500

var (
	ErrSignalNotFound = apperror.NotFound("Signal not found")
	ErrNoContent      = apperror.Validation("content", "No content to filter")
	ErrEmptyBatch     = apperror.Validation("signals", "signals must contain at least one item")
	ErrNoLabel        = apperror.Validation("email_label", "email_label is required for a signal without a label")
)

// labelScores is the score a signal takes when a user confirms its email label.
var labelScores = map[string]int{
	models.LabelOpportunity:    90,
	models.LabelDecisionNeeded: 80,
	models.LabelLowPriority:    40,
	models.LabelIgnore:         20,
}

type Service struct {
	db       *gorm.DB
	maxBatch int
}

func NewService(db *gorm.DB, maxBatch int) *Service {
	if maxBatch <= 0 {
		maxBatch = defaultBatchMax
	}
	return &Service{db: db, maxBatch: maxBatch}
}

// List returns every signal owned by userID, newest first.
func (s *Service) List(userID uuid.UUID) ([]models.Signal, error) {
	signals := make([]models.Signal, 0)
	err := s.db.Scopes(database.OwnedBy(userID)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&signals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}
	return signals, nil
}

func (s *Service) Create(userID uuid.UUID, req dto.CreateSignalRequest) (*models.Signal, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	signal := newSignal(userID, req, time.Now())
	if err := s.db.Create(&signal).Error; err != nil {
		return nil, fmt.Errorf("failed to create signal: %w", err)
	}
	return &signal, nil
}

// CreateBatch validates every item, then inserts all of them in one
// transaction. Either every row is stored or none is.
func (s *Service) CreateBatch(userID uuid.UUID, reqs []dto.CreateSignalRequest) ([]models.Signal, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > s.maxBatch {
		return nil, apperror.Validationf("signals", "signals must contain at most %d items", s.maxBatch)
	}
	for i := range reqs {
		if err := validation.Struct(reqs[i]); err != nil {
			return nil, validation.Indexed("signals", i, err)
		}
	}

	// strictly increasing timestamps keep input order stable under newest-first listing
	base := time.Now()
	rows := make([]models.Signal, len(reqs))
	for i, req := range reqs {
		rows[i] = newSignal(userID, req, base.Add(time.Duration(i)*time.Microsecond))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, 100).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create signals: %w", err)
	}
	return rows, nil
}

// Classify runs the keyword classifier without persisting anything.
func (s *Service) Classify(content string) (*dto.ClassifyResponse, error) {
	records := classifier.Classify(content)
	if len(records) == 0 {
		return nil, ErrNoContent
	}
	return &dto.ClassifyResponse{
		Signals:     records,
		SignalCount: classifier.CountSignals(records),
	}, nil
}

// Ingest classifies content and stores every resulting record atomically.
func (s *Service) Ingest(userID uuid.UUID, content string) (*dto.IngestResponse, error) {
	records := classifier.Classify(content)
	if len(records) == 0 {
		return nil, ErrNoContent
	}

	rows, err := s.CreateBatch(userID, dto.RequestsFromRecords(records))
	if err != nil {
		return nil, err
	}
	return &dto.IngestResponse{
		Signals:      rows,
		CreatedCount: len(rows),
		SignalCount:  classifier.CountSignals(records),
	}, nil
}

// DeleteAll removes every signal owned by userID in a single statement.
func (s *Service) DeleteAll(userID uuid.UUID) (int64, error) {
	result := s.db.Scopes(database.OwnedBy(userID)).Delete(&models.Signal{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete signals: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// UpdateLabel records a user's decision about an email signal in place.
// A nil label confirms the label the signal already carries.
func (s *Service) UpdateLabel(userID, signalID uuid.UUID, label *string) (*models.Signal, error) {
	if label != nil {
		if err := validation.Struct(dto.LabelRequest{EmailLabel: label}); err != nil {
			return nil, err
		}
	}

	var signal models.Signal
	err := s.db.Scopes(database.OwnedBy(userID)).First(&signal, "id = ?", signalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignalNotFound
		}
		return nil, fmt.Errorf("failed to load signal: %w", err)
	}

	chosen := ""
	switch {
	case label != nil && *label != "":
		chosen = *label
	case signal.IsEmail():
		chosen = *signal.EmailLabel
	default:
		return nil, ErrNoLabel
	}

	signalType := models.SignalTypeNoise
	if chosen == models.LabelOpportunity || chosen == models.LabelDecisionNeeded {
		signalType = models.SignalTypeSignal
	}

	err = s.db.Model(&signal).Updates(map[string]interface{}{
		"email_label":    chosen,
		"score":          labelScores[chosen],
		"signal_type":    signalType,
		"user_confirmed": true,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update signal label: %w", err)
	}

	signal.EmailLabel = &chosen
	signal.Score = labelScores[chosen]
	signal.SignalType = signalType
	signal.UserConfirmed = true
	return &signal, nil
}

func newSignal(userID uuid.UUID, req dto.CreateSignalRequest, createdAt time.Time) models.Signal {
	return models.Signal{
		ID:              uuid.New(),
		UserID:          userID,
		Content:         req.Content,
		Category:        strings.TrimSpace(req.Category),
		Score:           *req.Score,
		AINotes:         emptyToNil(req.AINotes),
		SignalType:      req.SignalType,
		SuggestedAction: emptyToNil(req.SuggestedAction),
		EmailLabel:      emptyToNil(req.EmailLabel),
		UserConfirmed:   req.UserConfirmed,
		CreatedAt:       createdAt,
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
