package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/internal/metrics"
	"github.com/sensusai/sensus-server/pkg/logger"
	"github.com/sensusai/sensus-server/pkg/wallet"
)

// confirmationTimeout bounds the receipt wait once a transfer is submitted.
const confirmationTimeout = 10 * time.Minute

var ErrIssuanceInFlight = errors.New("reward issuance already in flight for address")

// RewardIssuer pays recording rewards out of the pool account.
//
// Every outcome is returned as a RewardResult; IssueReward never returns an
// error and never retries a transfer. Concurrent calls for the same address
// are rejected with PENDING_REQUEST until the first one resolves. Once a
// transfer is being submitted the caller's cancellation is ignored.
type RewardIssuer struct {
	dialer     ports.LedgerDialer
	calculator ports.RewardCalculator
	pool       common.Address
	chainID    *big.Int
	confirmFor time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewRewardIssuer(dialer ports.LedgerDialer, calculator ports.RewardCalculator, pool common.Address) *RewardIssuer {
	if calculator == nil {
		calculator = NewRewardCalculator()
	}
	return &RewardIssuer{
		dialer:     dialer,
		calculator: calculator,
		pool:       pool,
		chainID:    big.NewInt(models.SepoliaChainID),
		confirmFor: confirmationTimeout,
		inFlight:   make(map[string]struct{}),
	}
}

func (s *RewardIssuer) IssueReward(ctx context.Context, address string, durationSeconds int64) (result *models.RewardResult) {
	start := time.Now()
	log := logger.WithComponent("rewards").With().
		Str("address", address).
		Int64("duration", durationSeconds).
		Logger()

	defer func() {
		outcome := "success"
		if !result.Success {
			outcome = string(result.Reason)
		}
		metrics.RewardIssuanceTotal.WithLabelValues(outcome).Inc()
		metrics.RewardIssuanceDuration.Observe(time.Since(start).Seconds())

		if result.Success {
			log.Info().Str("amount", result.Amount).Str("tx", result.TxHash).Msg("Reward issued")
		} else {
			log.Warn().Err(result.Unwrap()).Str("reason", outcome).Str("tx", result.TxHash).Msg("Reward not issued")
		}
	}()

	key := strings.ToLower(address)
	if !s.acquire(key) {
		return models.NewRewardFailure(models.RewardReasonPendingRequest, ErrIssuanceInFlight)
	}
	defer s.release(key)

	return s.issue(ctx, log, address, durationSeconds)
}

func (s *RewardIssuer) issue(ctx context.Context, log zerolog.Logger, address string, durationSeconds int64) *models.RewardResult {
	if s.dialer == nil {
		return models.NewRewardFailure(models.RewardReasonNoWallet, ports.ErrNoWallet)
	}

	ledger, err := s.dialer.Dial(ctx, true)
	if err != nil {
		if errors.Is(err, ports.ErrNoWallet) {
			return models.NewRewardFailure(models.RewardReasonNoWallet, err)
		}
		return classifyRewardError(fmt.Errorf("failed to acquire ledger: %w", err))
	}
	defer ledger.Close()

	// transfers are sent from the signer, so an unset pool is the signer
	pool := s.pool
	if pool == (common.Address{}) {
		pool = ledger.Address()
	}
	if pool == (common.Address{}) {
		return models.NewRewardFailure(models.RewardReasonNoWallet,
			fmt.Errorf("%w: reward pool account unknown", ports.ErrNoWallet))
	}

	if !common.IsHexAddress(address) {
		return models.NewRewardFailure(models.RewardReasonTransferFailed, fmt.Errorf("invalid recipient address %q", address))
	}
	to := common.HexToAddress(address)

	chainID, err := ledger.ChainID(ctx)
	if err != nil {
		return classifyRewardError(fmt.Errorf("failed to get network: %w", err))
	}
	if chainID == nil || chainID.Cmp(s.chainID) != 0 {
		return models.NewRewardFailure(models.RewardReasonWrongNetwork,
			fmt.Errorf("connected to chain %v, rewards require %s", chainID, s.chainID))
	}

	amount := s.calculator.CalculateReward(durationSeconds)
	if amount.Sign() == 0 {
		return models.NewRewardFailure(models.RewardReasonDurationTooShort, nil)
	}

	balance, err := ledger.BalanceOf(ctx, pool)
	if err != nil {
		return classifyRewardError(fmt.Errorf("failed to read pool balance: %w", err))
	}
	if balance.Cmp(amount) < 0 {
		return models.NewRewardFailure(models.RewardReasonInsufficientBalance,
			fmt.Errorf("pool balance %s below reward %s", balance, amount))
	}

	log.Debug().Str("reward", amount.String()).Str("pool", pool.Hex()).Msg("Initiating transfer")

	// Past this point the transfer may land on chain; nothing below retries
	// and a client going away must not turn a payment into a failure.
	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.confirmFor)
	defer cancel()

	tx, err := ledger.Transfer(submitCtx, to, amount)
	if err != nil {
		return classifyRewardError(fmt.Errorf("transfer failed: %w", err))
	}
	txHash := tx.Hash().Hex()

	log.Info().Str("tx", txHash).Str("reward", amount.String()).Msg("Transfer submitted")

	receipt, err := ledger.WaitMined(submitCtx, tx)
	if err != nil {
		return classifyRewardError(fmt.Errorf("confirmation failed for %s: %w", txHash, err)).WithTxHash(txHash)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return classifyRewardError(fmt.Errorf("%w: %s", ports.ErrTransferReverted, txHash)).WithTxHash(txHash)
	}

	return models.NewRewardSuccess(wallet.FormatUnits(amount, models.TokenDecimals), txHash)
}

// classifyRewardError maps coded provider errors onto their reasons; anything
// else is a TRANSFER_FAILED that keeps the original error.
func classifyRewardError(err error) *models.RewardResult {
	var coded rpc.Error
	if errors.As(err, &coded) {
		switch coded.ErrorCode() {
		case ports.ErrCodeUserRejected:
			return models.NewRewardFailure(models.RewardReasonUserRejected, err)
		case ports.ErrCodePendingRequest:
			return models.NewRewardFailure(models.RewardReasonPendingRequest, err)
		}
	}
	return models.NewRewardFailure(models.RewardReasonTransferFailed, err)
}

func (s *RewardIssuer) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *RewardIssuer) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}
