package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/internal/metrics"
	"github.com/sensusai/sensus-server/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrInvalidDuration = errors.New("invalid recording duration")
	ErrMissingVideo    = errors.New("recording video is required")
)

func ValidateTopic(topic string) error {
	if !models.IsValidTopic(topic) {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	return nil
}

type RecordingService struct {
	repo     ports.RecordingRepository
	videos   ports.VideoStore
	nonces   ports.NonceGenerator
	rewards  ports.RewardIssuer
	balances ports.BalanceReader
}

func NewRecordingService(
	repo ports.RecordingRepository,
	videos ports.VideoStore,
	nonces ports.NonceGenerator,
	rewards ports.RewardIssuer,
	balances ports.BalanceReader,
) *RecordingService {
	return &RecordingService{
		repo:     repo,
		videos:   videos,
		nonces:   nonces,
		rewards:  rewards,
		balances: balances,
	}
}

// CreateRecording stores the video and its row, then pays the reward. The
// recording is kept whatever the reward outcome is; the outcome is written
// back onto the row.
func (s *RecordingService) CreateRecording(ctx context.Context, input ports.CreateRecordingInput) (*models.Recording, *models.RewardResult, error) {
	log := logger.WithComponent("recording_service")

	if !common.IsHexAddress(input.UserID) {
		return nil, nil, ErrInvalidAddress
	}
	if err := ValidateTopic(input.Topic); err != nil {
		return nil, nil, err
	}
	if input.Duration < 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidDuration, input.Duration)
	}
	if input.Video == nil {
		return nil, nil, ErrMissingVideo
	}

	userID := strings.ToLower(input.UserID)
	recording := models.NewRecording(userID, input.Topic, input.Duration)

	videoURL, err := s.videos.UploadVideo(ctx, userID, input.Video, input.VideoSize, input.ContentType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store video: %w", err)
	}
	recording.VideoURL = videoURL

	if s.nonces != nil {
		recording.Nonce = s.nonces.GenerateNonce(ctx)
	}

	if err := s.repo.Create(ctx, recording); err != nil {
		if delErr := s.videos.DeleteVideo(ctx, videoURL); delErr != nil {
			log.Warn().Err(delErr).Str("video_url", videoURL).Msg("Failed to clean up orphaned video")
		}
		return nil, nil, fmt.Errorf("failed to save recording: %w", err)
	}

	category, _, _ := strings.Cut(input.Topic, "/")
	metrics.RecordingsCreatedTotal.WithLabelValues(category).Inc()

	log.Info().
		Str("recording_id", recording.ID.String()).
		Str("user", userID).
		Str("topic", recording.Topic).
		Int64("duration", recording.Duration).
		Msg("Recording stored")

	reward := s.rewards.IssueReward(ctx, userID, input.Duration)
	recording.ApplyReward(reward)

	if err := s.repo.Update(context.WithoutCancel(ctx), recording); err != nil {
		// the transfer may already be on chain, so this is not a failure
		log.Error().Err(err).
			Str("recording_id", recording.ID.String()).
			Str("tx", reward.TxHash).
			Msg("Failed to record reward outcome")
	}

	return recording, reward, nil
}

func (s *RecordingService) ListRecordings(ctx context.Context, userID string) ([]*models.Recording, error) {
	if !common.IsHexAddress(userID) {
		return nil, ErrInvalidAddress
	}
	return s.repo.ListByUser(ctx, strings.ToLower(userID))
}

// GetRecording hides other users' recordings behind ErrRecordingNotFound.
func (s *RecordingService) GetRecording(ctx context.Context, userID string, id uuid.UUID) (*models.Recording, error) {
	recording, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(recording.UserID, userID) {
		return nil, ports.ErrRecordingNotFound
	}
	return recording, nil
}

// Dashboard loads the recordings and the token balance concurrently.
func (s *RecordingService) Dashboard(ctx context.Context, userID string) (*ports.Dashboard, error) {
	if !common.IsHexAddress(userID) {
		return nil, ErrInvalidAddress
	}

	dashboard := &ports.Dashboard{Address: strings.ToLower(userID)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recordings, err := s.repo.ListByUser(gctx, dashboard.Address)
		if err != nil {
			return err
		}
		dashboard.Recordings = recordings
		return nil
	})
	g.Go(func() error {
		dashboard.Balance = s.balances.GetTokenBalance(gctx, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dashboard, nil
}
