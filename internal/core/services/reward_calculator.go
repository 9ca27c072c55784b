package services

import (
	"math/big"

	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
)

type RewardCalculator struct {
	minDuration     int64
	intervalSeconds int64
	perInterval     *big.Int
}

func NewRewardCalculator() ports.RewardCalculator {
	return &RewardCalculator{
		minDuration:     models.MinRecordingDuration,
		intervalSeconds: models.RewardIntervalSeconds,
		perInterval:     models.TokensPerInterval(),
	}
}

// CalculateReward pays one token per complete 10 second interval, in smallest
// units. Durations under the minimum, including negative ones, earn zero.
func (rc *RewardCalculator) CalculateReward(durationSeconds int64) *big.Int {
	if durationSeconds < rc.minDuration {
		return new(big.Int)
	}

	intervals := big.NewInt(durationSeconds / rc.intervalSeconds)
	return new(big.Int).Mul(rc.perInterval, intervals)
}
