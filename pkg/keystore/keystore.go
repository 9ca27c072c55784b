package keystore

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sensusai/sensus-server/pkg/logger"
)

const (
	DefaultDirName  = ".sensus"
	DefaultFileName = "keystore.json"
)

var ErrNoPrivateKey = errors.New("no private key found in keystore")

type Config struct {
	DirPath  string
	FileName string
}

// Keystore persists the reward pool signing key on local disk.
type Keystore struct {
	path string
}

type keystoreFile struct {
	PrivateKey string `json:"private_key"`
	CreatedAt  int64  `json:"created_at"`
}

// DefaultConfig places the keystore under the user's home directory.
func DefaultConfig() (Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get home directory: %w", err)
	}
	return Config{
		DirPath:  filepath.Join(homeDir, DefaultDirName),
		FileName: DefaultFileName,
	}, nil
}

func NewKeystore(cfg Config) (*Keystore, error) {
	if cfg.DirPath == "" {
		return nil, fmt.Errorf("keystore directory is required")
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultFileName
	}

	if err := os.MkdirAll(cfg.DirPath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}

	return &Keystore{path: filepath.Join(cfg.DirPath, cfg.FileName)}, nil
}

func (k *Keystore) Path() string {
	return k.path
}

func (k *Keystore) SavePrivateKey(privateKeyHex string) error {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	if _, err := crypto.HexToECDSA(privateKeyHex); err != nil {
		return fmt.Errorf("invalid private key format: %w", err)
	}

	data, err := json.MarshalIndent(keystoreFile{
		PrivateKey: privateKeyHex,
		CreatedAt:  time.Now().Unix(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore: %w", err)
	}

	if err := os.WriteFile(k.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write keystore file: %w", err)
	}

	log := logger.WithComponent("keystore")
	log.Info().Str("path", k.path).Msg("Private key saved to keystore")

	return nil
}

// LoadPrivateKey returns ErrNoPrivateKey when nothing has been saved yet.
func (k *Keystore) LoadPrivateKey() (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(k.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoPrivateKey
		}
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}

	var ks keystoreFile
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("invalid keystore format: %w", err)
	}

	if ks.PrivateKey == "" {
		return nil, ErrNoPrivateKey
	}

	key, err := crypto.HexToECDSA(ks.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key in keystore: %w", err)
	}
	return key, nil
}
