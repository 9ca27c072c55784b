package ports

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/sensusai/sensus-server/internal/core/models"
)

var ErrRecordingNotFound = errors.New("recording not found")

type RecordingRepository interface {
	Create(ctx context.Context, recording *models.Recording) error
	Update(ctx context.Context, recording *models.Recording) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Recording, error)
}

type VideoStore interface {
	UploadVideo(ctx context.Context, userID string, video io.Reader, size int64, contentType string) (string, error)
	DeleteVideo(ctx context.Context, videoURL string) error
}

type NonceGenerator interface {
	GenerateNonce(ctx context.Context) string
}

type CreateRecordingInput struct {
	UserID      string
	Topic       string
	Duration    int64
	Video       io.Reader
	VideoSize   int64
	ContentType string
}

type Dashboard struct {
	Address    string              `json:"address"`
	Balance    string              `json:"balance"`
	Recordings []*models.Recording `json:"recordings"`
}

type RecordingServicer interface {
	CreateRecording(ctx context.Context, input CreateRecordingInput) (*models.Recording, *models.RewardResult, error)
	ListRecordings(ctx context.Context, userID string) ([]*models.Recording, error)
	GetRecording(ctx context.Context, userID string, id uuid.UUID) (*models.Recording, error)
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

type AuthServicer interface {
	Challenge(ctx context.Context, address string) (string, error)
	Verify(ctx context.Context, address string, signature string) (string, error)
}
