package models

import (
	"fmt"
	"math/big"
)

const (
	// SensTokenAddress is the SENS ERC20 contract that also holds the reward pool.
	SensTokenAddress = "0xbB0F4a74b0433D4876d3B7E690895FB06e004D0E"
	TokenSymbol      = "SENS"
	TokenDecimals    = 18

	// SepoliaChainID is the only network rewards are paid on.
	SepoliaChainID int64 = 11155111

	MinRecordingDuration  int64 = 10
	RewardIntervalSeconds int64 = 10
)

// TokensPerInterval returns one SENS in smallest units.
func TokensPerInterval() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)
}

type RewardReason string

const (
	RewardReasonNoWallet            RewardReason = "NO_WALLET"
	RewardReasonWrongNetwork        RewardReason = "WRONG_NETWORK"
	RewardReasonDurationTooShort    RewardReason = "DURATION_TOO_SHORT"
	RewardReasonInsufficientBalance RewardReason = "INSUFFICIENT_BALANCE"
	RewardReasonUserRejected        RewardReason = "USER_REJECTED"
	RewardReasonPendingRequest      RewardReason = "PENDING_REQUEST"
	RewardReasonTransferFailed      RewardReason = "TRANSFER_FAILED"
)

var rewardMessages = map[RewardReason]string{
	RewardReasonNoWallet:            "No reward wallet is available to send rewards.",
	RewardReasonWrongNetwork:        "The reward wallet must be connected to the Sepolia network.",
	RewardReasonDurationTooShort:    fmt.Sprintf("Recording must be at least %d seconds long to earn rewards.", MinRecordingDuration),
	RewardReasonInsufficientBalance: "Reward pool is currently empty. Please try again later.",
	RewardReasonUserRejected:        "Transaction was rejected. Please try again.",
	RewardReasonPendingRequest:      "A reward request is already pending. Please wait for it to complete.",
	RewardReasonTransferFailed:      "Failed to send rewards. Please try again.",
}

func (r RewardReason) Message() string {
	return rewardMessages[r]
}

// RewardResult is the outcome of one issuance attempt. Successes carry Amount
// and TxHash, failures carry Reason and err. A failure with a TxHash was
// submitted but never confirmed, so it must not be issued again.
type RewardResult struct {
	Success bool         `json:"success"`
	Amount  string       `json:"amount,omitempty"`
	TxHash  string       `json:"tx_hash,omitempty"`
	Reason  RewardReason `json:"reason,omitempty"`
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`

	err error
}

func NewRewardSuccess(amount string, txHash string) *RewardResult {
	return &RewardResult{
		Success: true,
		Amount:  amount,
		TxHash:  txHash,
		Message: fmt.Sprintf("You earned %s %s tokens!", amount, TokenSymbol),
	}
}

// NewRewardFailure keeps err for diagnostics; only TRANSFER_FAILED exposes it in JSON.
func NewRewardFailure(reason RewardReason, err error) *RewardResult {
	result := &RewardResult{
		Reason:  reason,
		Message: reason.Message(),
		err:     err,
	}
	if reason == RewardReasonTransferFailed && err != nil {
		result.Error = err.Error()
	}
	return result
}

// WithTxHash marks a failure as submitted on chain.
func (r *RewardResult) WithTxHash(txHash string) *RewardResult {
	r.TxHash = txHash
	return r
}

// Submitted reports whether a transfer reached the chain, confirmed or not.
func (r *RewardResult) Submitted() bool {
	return r.TxHash != ""
}

func (r *RewardResult) Unwrap() error {
	return r.err
}
