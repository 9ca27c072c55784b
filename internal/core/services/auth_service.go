package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jonboulle/clockwork"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/pkg/logger"
	"github.com/sensusai/sensus-server/pkg/wallet"
)

const challengeTTL = 5 * time.Minute

var (
	ErrInvalidAddress    = errors.New("invalid wallet address")
	ErrNoChallenge       = errors.New("no pending challenge for address")
	ErrChallengeExpired  = errors.New("challenge expired")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrSignatureMismatch = errors.New("signature does not match address")
)

type challenge struct {
	message string
	expires time.Time
}

// AuthService logs wallets in by having them sign a one-time challenge.
type AuthService struct {
	nonces   ports.NonceGenerator
	secret   string
	tokenTTL time.Duration
	clock    clockwork.Clock

	mu      sync.Mutex
	pending map[string]challenge
}

func NewAuthService(nonces ports.NonceGenerator, secret string, tokenTTL time.Duration) *AuthService {
	return NewAuthServiceWithClock(nonces, secret, tokenTTL, clockwork.NewRealClock())
}

func NewAuthServiceWithClock(nonces ports.NonceGenerator, secret string, tokenTTL time.Duration, clock clockwork.Clock) *AuthService {
	return &AuthService{
		nonces:   nonces,
		secret:   secret,
		tokenTTL: tokenTTL,
		clock:    clock,
		pending:  make(map[string]challenge),
	}
}

func ChallengeMessage(address, nonce string) string {
	return fmt.Sprintf("Sign in to SensusAI\n\nAddress: %s\nNonce: %s", strings.ToLower(address), nonce)
}

func (s *AuthService) Challenge(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}

	message := ChallengeMessage(address, s.nonces.GenerateNonce(ctx))
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for addr, c := range s.pending {
		if now.After(c.expires) {
			delete(s.pending, addr)
		}
	}
	s.pending[strings.ToLower(address)] = challenge{message: message, expires: now.Add(challengeTTL)}

	return message, nil
}

// Verify checks an EIP-191 personal_sign signature over the pending challenge
// and returns a session token. A challenge can be redeemed once.
func (s *AuthService) Verify(ctx context.Context, address string, signature string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}
	key := strings.ToLower(address)

	c, ok := s.take(key)
	if !ok {
		return "", ErrNoChallenge
	}
	if s.clock.Now().After(c.expires) {
		return "", ErrChallengeExpired
	}

	signer, err := RecoverSigner(c.message, signature)
	if err == nil && signer != common.HexToAddress(address) {
		err = ErrSignatureMismatch
	}
	if err != nil {
		s.restore(key, c)
		return "", err
	}

	token, err := wallet.GenerateToken(address, s.secret, s.tokenTTL)
	if err != nil {
		return "", err
	}

	log := logger.WithComponent("auth")
	log.Info().Str("address", key).Msg("Wallet authenticated")

	return token, nil
}

// take removes the pending challenge so only one Verify can redeem it.
func (s *AuthService) take(key string) (challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.pending[key]
	if ok {
		delete(s.pending, key)
	}
	return c, ok
}

// restore puts back a challenge after a bad signature unless a newer one was issued.
func (s *AuthService) restore(key string, c challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[key]; !ok {
		s.pending[key] = c
	}
}

func RecoverSigner(message string, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignature
	}
	// wallets send V as 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
