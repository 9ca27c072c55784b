package models

import (
	coremodels "github.com/sensusai/sensus-server/internal/core/models"
)

type ChallengeResponse struct {
	Address string `json:"address"`
	Message string `json:"message"`
}

type VerifyRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CreateRecordingResponse struct {
	Recording *coremodels.Recording    `json:"recording"`
	Reward    *coremodels.RewardResult `json:"reward"`
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Symbol  string `json:"symbol"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
