package ports

import (
	"context"
	"math/big"

	"github.com/sensusai/sensus-server/internal/core/models"
)

type RewardCalculator interface {
	CalculateReward(durationSeconds int64) *big.Int
}

type RewardIssuer interface {
	IssueReward(ctx context.Context, address string, durationSeconds int64) *models.RewardResult
}

type BalanceReader interface {
	GetTokenBalance(ctx context.Context, address string) string
}
