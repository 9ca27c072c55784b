package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/drand/drand/client"
	"github.com/drand/drand/client/http"
	"github.com/google/uuid"
	"github.com/sensusai/sensus-server/pkg/logger"
)

// drand mainnet chain
const drandChainHash = "8990e7a9aaed2ffed73dbd7092123d6f289930540d7651336225dc172e51b2ce"

var drandURLs = []string{"https://api.drand.sh", "https://drand.cloudflare.com"}

// NonceService mixes the latest drand beacon with local randomness so
// challenges are both unpredictable and unique per request.
type NonceService struct {
	client client.Client
}

func NewNonceService() *NonceService {
	log := logger.WithComponent("nonce_service")

	chainHash, err := hex.DecodeString(drandChainHash)
	if err != nil {
		return &NonceService{}
	}

	httpClients := http.ForURLs(drandURLs, chainHash)
	if len(httpClients) == 0 {
		log.Warn().Msg("No drand endpoints reachable, using local randomness only")
		return &NonceService{}
	}

	c, err := client.New(
		client.From(httpClients...),
		client.WithChainHash(chainHash),
		client.WithCacheSize(0),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create drand client, using local randomness only")
		return &NonceService{}
	}

	return &NonceService{client: c}
}

// NewLocalNonceService never contacts drand.
func NewLocalNonceService() *NonceService {
	return &NonceService{}
}

func (s *NonceService) GenerateNonce(ctx context.Context) string {
	local := make([]byte, 16)
	if _, err := rand.Read(local); err != nil {
		local = []byte(fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String()))
	}

	if s.client != nil {
		beaconCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		result, err := s.client.Get(beaconCtx, 0)
		if err == nil {
			return hex.EncodeToString(result.Randomness()) + hex.EncodeToString(local)
		}
		log := logger.WithComponent("nonce_service")
		log.Debug().Err(err).Msg("drand beacon unavailable")
	}

	return hex.EncodeToString(local)
}
