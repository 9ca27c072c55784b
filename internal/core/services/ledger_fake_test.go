package services

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
)

type fakeLedger struct {
	mu sync.Mutex

	chainID       *big.Int
	chainErr      error
	balance       *big.Int
	balanceErr    error
	transferErr   error
	waitErr       error
	receiptStatus uint64
	signer        common.Address

	// onWait runs at the start of WaitMined with the context it was given.
	onWait func(ctx context.Context)

	// transferStarted is closed when Transfer is entered; Transfer then
	// blocks until releaseTransfer is closed. Both are optional.
	transferStarted chan struct{}
	releaseTransfer chan struct{}

	calls          []string
	balanceAccount common.Address
	transferTo     common.Address
	transferAmount *big.Int
	closed         bool
	waitCtxErr     error
}

var _ ports.TokenLedger = (*fakeLedger)(nil)

func newFundedLedger(balance *big.Int) *fakeLedger {
	return &fakeLedger{
		chainID:       big.NewInt(models.SepoliaChainID),
		balance:       balance,
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (l *fakeLedger) record(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *fakeLedger) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *fakeLedger) Address() common.Address {
	return l.signer
}

func (l *fakeLedger) ChainID(ctx context.Context) (*big.Int, error) {
	l.record("ChainID")
	return l.chainID, l.chainErr
}

func (l *fakeLedger) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	l.record("BalanceOf")
	l.mu.Lock()
	l.balanceAccount = account
	l.mu.Unlock()
	if l.balanceErr != nil {
		return nil, l.balanceErr
	}
	return new(big.Int).Set(l.balance), nil
}

func (l *fakeLedger) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	l.record("Transfer")
	if l.transferStarted != nil {
		close(l.transferStarted)
	}
	if l.releaseTransfer != nil {
		<-l.releaseTransfer
	}
	if l.transferErr != nil {
		return nil, l.transferErr
	}
	l.mu.Lock()
	l.transferTo = to
	l.transferAmount = new(big.Int).Set(amount)
	l.mu.Unlock()
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      60_000,
		GasPrice: big.NewInt(1),
	}), nil
}

func (l *fakeLedger) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	l.record("WaitMined")
	if l.onWait != nil {
		l.onWait(ctx)
	}
	if err := ctx.Err(); err != nil {
		l.mu.Lock()
		l.waitCtxErr = err
		l.mu.Unlock()
		return nil, err
	}
	if l.waitErr != nil {
		return nil, l.waitErr
	}
	return &types.Receipt{Status: l.receiptStatus, TxHash: tx.Hash()}, nil
}

func (l *fakeLedger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

type fakeDialer struct {
	mu     sync.Mutex
	ledger *fakeLedger
	err    error
	signed []bool
}

func (d *fakeDialer) Dial(ctx context.Context, signed bool) (ports.TokenLedger, error) {
	d.mu.Lock()
	d.signed = append(d.signed, signed)
	d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return d.ledger, nil
}

func (d *fakeDialer) Dials() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bool(nil), d.signed...)
}

// codedError is a stand-in for a JSON-RPC error returned by a provider.
type codedError struct {
	code int
	msg  string
}

func (e codedError) Error() string  { return e.msg }
func (e codedError) ErrorCode() int { return e.code }
