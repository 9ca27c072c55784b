package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sensusai/sensus-server/internal/core/config"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/internal/core/services"
	"github.com/sensusai/sensus-server/pkg/keystore"
	"github.com/sensusai/sensus-server/pkg/wallet"
)

const ledgerTimeout = 3 * time.Minute

type ledgerSetup struct {
	dialer ports.LedgerDialer
	pool   common.Address
}

func newLedgerSetup(cfg *config.Config) (*ledgerSetup, error) {
	ksConfig, err := keystore.DefaultConfig()
	if err != nil {
		return nil, err
	}
	ks, err := keystore.NewKeystore(ksConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open keystore: %w", err)
	}

	setup := &ledgerSetup{dialer: services.NewEthereumLedgerDialer(cfg.Ethereum.RPC, ks)}
	// an unresolved pool falls back to the signer inside the issuer
	pool, err := services.ResolvePoolAddress(cfg.Ethereum.RewardPoolAddress, ks)
	switch {
	case errors.Is(err, services.ErrInvalidPoolAddress):
		return nil, err
	case err == nil:
		setup.pool = pool
	}
	return setup, nil
}

// ExecuteReward issues a single reward and writes the result as JSON.
func ExecuteReward(cfg *config.Config, address string, duration int64, out io.Writer) (*models.RewardResult, error) {
	setup, err := newLedgerSetup(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()

	issuer := services.NewRewardIssuer(setup.dialer, services.NewRewardCalculator(), setup.pool)
	result := issuer.IssueReward(ctx, address, duration)

	return result, writeJSON(out, result)
}

var ErrBalanceBelowMinimum = errors.New("balance below minimum")

// ExecuteBalance prints the balance; a positive minBalance turns a lower
// balance into ErrBalanceBelowMinimum so scripts can alert on it.
func ExecuteBalance(cfg *config.Config, address string, minBalance float64, out io.Writer) error {
	setup, err := newLedgerSetup(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	balance := services.NewBalanceReader(setup.dialer).GetTokenBalance(ctx, address)
	if _, err := fmt.Fprintf(out, "%s %s\n", balance, models.TokenSymbol); err != nil {
		return err
	}

	if minBalance > 0 {
		value, err := strconv.ParseFloat(balance, 64)
		if err != nil {
			return fmt.Errorf("failed to parse balance %q: %w", balance, err)
		}
		if value < minBalance {
			return fmt.Errorf("%w: %s < %g %s", ErrBalanceBelowMinimum, balance, minBalance, models.TokenSymbol)
		}
	}
	return nil
}

type rewardEstimate struct {
	Address  string `json:"address"`
	Duration int64  `json:"duration"`
	Amount   string `json:"amount"`
}

// ExecuteRewardEstimate prints what a recording would earn without touching the ledger.
func ExecuteRewardEstimate(address string, duration int64, out io.Writer) error {
	amount := services.NewRewardCalculator().CalculateReward(duration)
	return writeJSON(out, rewardEstimate{
		Address:  address,
		Duration: duration,
		Amount:   wallet.FormatUnits(amount, models.TokenDecimals),
	})
}

type tokenInfo struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	ChainID  int64  `json:"chain_id"`
}

func ExecuteTokenInfo(cfg *config.Config, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := wallet.NewClient(ctx, wallet.ClientConfig{
		RPCURL:       cfg.Ethereum.RPC,
		ChainID:      models.SepoliaChainID,
		TokenAddress: common.HexToAddress(models.SensTokenAddress),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to ethereum: %w", err)
	}
	defer client.Close()

	name, symbol, decimals, err := client.TokenInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to read token metadata: %w", err)
	}

	return writeJSON(out, tokenInfo{
		Address:  client.TokenAddress().Hex(),
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
		ChainID:  models.SepoliaChainID,
	})
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
