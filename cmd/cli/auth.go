package cli

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sensusai/sensus-server/pkg/keystore"
	"github.com/sensusai/sensus-server/pkg/logger"
)

// ExecuteAuth stores the reward pool key in the default keystore.
func ExecuteAuth(privateKey string) error {
	cfg, err := keystore.DefaultConfig()
	if err != nil {
		return err
	}
	return saveKey(privateKey, cfg)
}

func saveKey(privateKey string, cfg keystore.Config) error {
	log := logger.WithComponent("auth")

	if privateKey == "" {
		return fmt.Errorf("private key is required")
	}

	privateKey = strings.TrimPrefix(privateKey, "0x")

	if len(privateKey) != 64 {
		return fmt.Errorf("invalid private key - must be 64 hex characters without 0x prefix")
	}

	key, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return fmt.Errorf("invalid private key format: %w", err)
	}

	ks, err := keystore.NewKeystore(cfg)
	if err != nil {
		return fmt.Errorf("failed to create keystore: %w", err)
	}

	if err := ks.SavePrivateKey(privateKey); err != nil {
		return fmt.Errorf("failed to save private key: %w", err)
	}

	log.Info().
		Str("address", crypto.PubkeyToAddress(key.PublicKey).Hex()).
		Str("keystore", ks.Path()).
		Msg("Reward pool key stored")

	return nil
}
