package ports

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrNoWallet means no ledger capability is configured at all.
	ErrNoWallet = errors.New("no wallet available")
	// ErrTransferReverted means the transfer was mined with a failed receipt.
	ErrTransferReverted = errors.New("transfer reverted")
)

// TokenLedger is one handle onto the token contract. Handles are acquired per
// operation and closed afterwards; they are never cached.
type TokenLedger interface {
	// Address is the signing account, or the zero address for read-only handles.
	Address() common.Address
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	// Transfer submits the transfer and returns the pending transaction.
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error)
	// WaitMined blocks until the pending transaction has a receipt.
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	Close()
}

type LedgerDialer interface {
	// Dial returns a handle; signed handles can submit transfers.
	Dial(ctx context.Context, signed bool) (TokenLedger, error)
}

const (
	ErrCodeUserRejected   = 4001
	ErrCodePendingRequest = -32002
)

// ProviderError is a coded wallet/provider failure. It satisfies go-ethereum's
// rpc.Error so JSON-RPC errors and locally raised ones classify the same way.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

func (e *ProviderError) ErrorCode() int {
	return e.Code
}
