package services

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/pkg/keystore"
	"github.com/sensusai/sensus-server/pkg/wallet"
)

var _ ports.TokenLedger = (*wallet.Client)(nil)

var ErrInvalidPoolAddress = errors.New("invalid reward pool address")

type KeyLoader interface {
	LoadPrivateKey() (*ecdsa.PrivateKey, error)
}

// EthereumLedgerDialer opens a fresh RPC connection for every Dial. Signed
// handles load the pool key from the keystore on each call.
type EthereumLedgerDialer struct {
	rpcURL       string
	tokenAddress common.Address
	keys         KeyLoader
}

func NewEthereumLedgerDialer(rpcURL string, keys KeyLoader) *EthereumLedgerDialer {
	return &EthereumLedgerDialer{
		rpcURL:       rpcURL,
		tokenAddress: common.HexToAddress(models.SensTokenAddress),
		keys:         keys,
	}
}

func (d *EthereumLedgerDialer) Dial(ctx context.Context, signed bool) (ports.TokenLedger, error) {
	if d.rpcURL == "" {
		return nil, fmt.Errorf("%w: no ethereum rpc configured", ports.ErrNoWallet)
	}

	cfg := wallet.ClientConfig{
		RPCURL:       d.rpcURL,
		ChainID:      models.SepoliaChainID,
		TokenAddress: d.tokenAddress,
	}

	if signed {
		key, err := d.loadKey()
		if err != nil {
			return nil, err
		}
		cfg.PrivateKey = key
	}

	client, err := wallet.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (d *EthereumLedgerDialer) loadKey() (*ecdsa.PrivateKey, error) {
	if d.keys == nil {
		return nil, fmt.Errorf("%w: no keystore configured", ports.ErrNoWallet)
	}
	key, err := d.keys.LoadPrivateKey()
	if err != nil {
		if errors.Is(err, keystore.ErrNoPrivateKey) {
			return nil, fmt.Errorf("%w: %w", ports.ErrNoWallet, err)
		}
		return nil, fmt.Errorf("failed to load pool key: %w", err)
	}
	return key, nil
}

// ResolvePoolAddress prefers the configured pool account and otherwise uses
// the signer's own address, since transfers are sent from the signer. Only
// ErrInvalidPoolAddress is a misconfiguration; the other errors mean the
// signer is not known yet and the issuer falls back to it per call.
func ResolvePoolAddress(configured string, keys KeyLoader) (common.Address, error) {
	if configured != "" {
		if !common.IsHexAddress(configured) {
			return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidPoolAddress, configured)
		}
		return common.HexToAddress(configured), nil
	}
	if keys == nil {
		return common.Address{}, ports.ErrNoWallet
	}
	key, err := keys.LoadPrivateKey()
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to derive pool address: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
