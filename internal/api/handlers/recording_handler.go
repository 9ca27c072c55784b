package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sensusai/sensus-server/internal/api/middleware"
	"github.com/sensusai/sensus-server/internal/api/models"
	coremodels "github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/internal/core/services"
	"github.com/sensusai/sensus-server/pkg/logger"
)

const maxVideoSize = 512 << 20

type RecordingHandler struct {
	recordingService ports.RecordingServicer
	balanceReader    ports.BalanceReader
}

func NewRecordingHandler(recordingService ports.RecordingServicer, balanceReader ports.BalanceReader) *RecordingHandler {
	return &RecordingHandler{
		recordingService: recordingService,
		balanceReader:    balanceReader,
	}
}

func (h *RecordingHandler) CreateRecording(c *gin.Context) {
	log := logger.WithComponent("recording_handler")
	address := middleware.Address(c)

	duration, err := strconv.ParseInt(c.PostForm("duration"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be a whole number of seconds"})
		return
	}

	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}
	if file.Size > maxVideoSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "video file is too large"})
		return
	}

	video, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded video")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read video file"})
		return
	}
	defer video.Close()

	recording, reward, err := h.recordingService.CreateRecording(c.Request.Context(), ports.CreateRecordingInput{
		UserID:      address,
		Topic:       c.PostForm("topic"),
		Duration:    duration,
		Video:       video,
		VideoSize:   file.Size,
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		if isRecordingInputError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("address", address).Msg("Failed to create recording")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recording"})
		return
	}

	c.JSON(http.StatusCreated, models.CreateRecordingResponse{Recording: recording, Reward: reward})
}

func (h *RecordingHandler) ListRecordings(c *gin.Context) {
	recordings, err := h.recordingService.ListRecordings(c.Request.Context(), middleware.Address(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recordings == nil {
		recordings = []*coremodels.Recording{}
	}
	c.JSON(http.StatusOK, recordings)
}

func (h *RecordingHandler) GetRecording(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recording ID"})
		return
	}

	recording, err := h.recordingService.GetRecording(c.Request.Context(), middleware.Address(c), id)
	if err != nil {
		if errors.Is(err, ports.ErrRecordingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recording)
}

func (h *RecordingHandler) GetBalance(c *gin.Context) {
	address := middleware.Address(c)
	c.JSON(http.StatusOK, models.BalanceResponse{
		Address: address,
		Balance: h.balanceReader.GetTokenBalance(c.Request.Context(), address),
		Symbol:  coremodels.TokenSymbol,
	})
}

func (h *RecordingHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.recordingService.Dashboard(c.Request.Context(), middleware.Address(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if dashboard.Recordings == nil {
		dashboard.Recordings = []*coremodels.Recording{}
	}
	c.JSON(http.StatusOK, dashboard)
}

func isRecordingInputError(err error) bool {
	return errors.Is(err, services.ErrInvalidTopic) ||
		errors.Is(err, services.ErrInvalidDuration) ||
		errors.Is(err, services.ErrMissingVideo) ||
		errors.Is(err, services.ErrInvalidAddress)
}
