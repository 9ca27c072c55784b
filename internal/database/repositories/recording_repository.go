package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/pkg/logger"
	"gorm.io/gorm"
)

type RecordingRepository struct {
	db *gorm.DB
}

func NewRecordingRepository(db *gorm.DB) *RecordingRepository {
	return &RecordingRepository{db: db}
}

func (r *RecordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	if recording.ID == uuid.Nil {
		recording.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(recording).Error
}

func (r *RecordingRepository) Update(ctx context.Context, recording *models.Recording) error {
	result := r.db.WithContext(ctx).Model(recording).Updates(map[string]interface{}{
		"verified":       recording.Verified,
		"flagged":        recording.Flagged,
		"reward_amount":  recording.RewardAmount,
		"reward_reason":  recording.RewardReason,
		"reward_tx_hash": recording.RewardTxHash,
	})
	if result.Error != nil {
		log := logger.WithComponent("recording_repository")
		log.Error().Err(result.Error).
			Str("recording_id", recording.ID.String()).
			Msg("Failed to update recording")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrRecordingNotFound
	}
	return nil
}

func (r *RecordingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error) {
	var recording models.Recording
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&recording)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ports.ErrRecordingNotFound
		}
		return nil, result.Error
	}
	return &recording, nil
}

func (r *RecordingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Recording, error) {
	var recordings []*models.Recording
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recordings)
	if result.Error != nil {
		return nil, result.Error
	}
	return recordings, nil
}
