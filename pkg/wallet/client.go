package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ErrReadOnly is returned by Transfer on a client created without a private key.
var ErrReadOnly = errors.New("wallet client has no signer")

type ClientConfig struct {
	RPCURL       string
	ChainID      int64
	TokenAddress common.Address
	// PrivateKey is optional; without it the client can only read.
	PrivateKey *ecdsa.PrivateKey
}

// Client is a token ledger handle bound to one RPC connection and at most one signer.
type Client struct {
	*ethclient.Client
	token        ERC20
	tokenAddress common.Address
	auth         *bind.TransactOpts
	address      common.Address
}

func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ethereum rpc: %w", err)
	}

	token, err := NewERC20(cfg.TokenAddress, client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to bind token contract: %w", err)
	}

	c := &Client{
		Client:       client,
		token:        token,
		tokenAddress: cfg.TokenAddress,
	}

	if cfg.PrivateKey != nil {
		auth, err := bind.NewKeyedTransactorWithChainID(cfg.PrivateKey, big.NewInt(cfg.ChainID))
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to create transactor: %w", err)
		}
		c.auth = auth
		c.address = crypto.PubkeyToAddress(cfg.PrivateKey.PublicKey)
	}

	return c, nil
}

// Address is the signer address, or the zero address for a read-only client.
func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) TokenAddress() common.Address {
	return c.tokenAddress
}

func (c *Client) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.token.BalanceOf(&bind.CallOpts{Context: ctx}, account)
}

// Transfer submits an ERC20 transfer from the signer and returns the pending transaction.
func (c *Client) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	if c.auth == nil {
		return nil, ErrReadOnly
	}
	opts := *c.auth
	opts.Context = ctx
	return c.token.Transfer(&opts, to, amount)
}

func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, c.Client, tx)
}

func (c *Client) TokenInfo(ctx context.Context) (name string, symbol string, decimals uint8, err error) {
	opts := &bind.CallOpts{Context: ctx}

	name, err = c.token.Name(opts)
	if err != nil {
		return "", "", 0, err
	}

	symbol, err = c.token.Symbol(opts)
	if err != nil {
		return "", "", 0, err
	}

	decimals, err = c.token.Decimals(opts)
	if err != nil {
		return "", "", 0, err
	}

	return name, symbol, decimals, nil
}
