package services

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/pkg/logger"
	"github.com/sensusai/sensus-server/pkg/wallet"
)

const zeroBalance = "0"

// BalanceReader backs the passive balance display. Unlike RewardIssuer it
// does not report failures: a missing wallet, a bad address or any ledger
// error reads as "0" and is only logged.
type BalanceReader struct {
	dialer ports.LedgerDialer
}

func NewBalanceReader(dialer ports.LedgerDialer) *BalanceReader {
	return &BalanceReader{dialer: dialer}
}

func (r *BalanceReader) GetTokenBalance(ctx context.Context, address string) string {
	log := logger.WithComponent("balance").With().Str("address", address).Logger()

	if r.dialer == nil || !common.IsHexAddress(address) {
		return zeroBalance
	}

	ledger, err := r.dialer.Dial(ctx, false)
	if err != nil {
		log.Warn().Err(err).Msg("Ledger unavailable, reporting zero balance")
		return zeroBalance
	}
	defer ledger.Close()

	balance, err := ledger.BalanceOf(ctx, common.HexToAddress(address))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read token balance, reporting zero balance")
		return zeroBalance
	}

	return wallet.FormatUnits(balance, models.TokenDecimals)
}
