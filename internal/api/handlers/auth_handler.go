package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sensusai/sensus-server/internal/api/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/internal/core/services"
	"github.com/sensusai/sensus-server/pkg/logger"
)

type AuthHandler struct {
	authService ports.AuthServicer
}

func NewAuthHandler(authService ports.AuthServicer) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Challenge(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	message, err := h.authService.Challenge(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusOK, models.ChallengeResponse{Address: address, Message: message})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	log := logger.WithComponent("auth_handler")

	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token, err := h.authService.Verify(c.Request.Context(), req.Address, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAddress):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoChallenge),
			errors.Is(err, services.ErrChallengeExpired),
			errors.Is(err, services.ErrInvalidSignature),
			errors.Is(err, services.ErrSignatureMismatch):
			log.Warn().Err(err).Str("address", req.Address).Msg("Wallet authentication rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Str("address", req.Address).Msg("Wallet authentication failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify signature"})
		}
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}
