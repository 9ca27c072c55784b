package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Recording struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       string       `json:"user_id" gorm:"type:varchar(42);index;not null"`
	Topic        string       `json:"topic" gorm:"type:varchar(255);not null"`
	Duration     int64        `json:"duration"`
	VideoURL     string       `json:"video_url" gorm:"type:text"`
	Nonce        string       `json:"nonce" gorm:"type:varchar(128)"`
	Verified     bool         `json:"verified" gorm:"default:false"`
	Flagged      bool         `json:"flagged" gorm:"default:false"`
	RewardAmount string       `json:"reward_amount,omitempty" gorm:"type:varchar(78)"`
	RewardReason RewardReason `json:"reward_reason,omitempty" gorm:"type:varchar(32)"`
	RewardTxHash string       `json:"reward_tx_hash,omitempty" gorm:"type:varchar(66)"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

type RecordingStatus string

const (
	RecordingStatusVerified RecordingStatus = "verified"
	RecordingStatusFlagged  RecordingStatus = "flagged"
	RecordingStatusPending  RecordingStatus = "pending"
)

func NewRecording(userID, topic string, duration int64) *Recording {
	return &Recording{
		ID:       uuid.New(),
		UserID:   userID,
		Topic:    topic,
		Duration: duration,
	}
}

// Status resolves the moderation flags; verified wins over flagged.
func (r *Recording) Status() RecordingStatus {
	switch {
	case r.Verified:
		return RecordingStatusVerified
	case r.Flagged:
		return RecordingStatusFlagged
	default:
		return RecordingStatusPending
	}
}

func (r *Recording) ApplyReward(result *RewardResult) {
	if result == nil {
		return
	}
	if result.Success {
		r.RewardAmount = result.Amount
		r.RewardTxHash = result.TxHash
		r.RewardReason = ""
		return
	}
	r.RewardReason = result.Reason
	r.RewardTxHash = result.TxHash
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
