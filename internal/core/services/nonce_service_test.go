package services

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/drand/drand/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalNonceService(t *testing.T) {
	svc := NewLocalNonceService()

	first := svc.GenerateNonce(context.Background())
	second := svc.GenerateNonce(context.Background())

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)

	_, err := hex.DecodeString(first)
	require.NoError(t, err)
}

type beaconResult struct {
	client.Result
	randomness []byte
}

func (r beaconResult) Randomness() []byte { return r.randomness }

type stubBeacon struct {
	client.Client
	result client.Result
	err    error
}

func (b stubBeacon) Get(ctx context.Context, round uint64) (client.Result, error) {
	return b.result, b.err
}

func TestNonceService_MixesBeacon(t *testing.T) {
	svc := &NonceService{client: stubBeacon{result: beaconResult{randomness: []byte{0xde, 0xad}}}}

	nonce := svc.GenerateNonce(context.Background())

	assert.Len(t, nonce, 4+32)
	assert.Equal(t, "dead", nonce[:4])
}

func TestNonceService_FallsBackWhenBeaconFails(t *testing.T) {
	svc := &NonceService{client: stubBeacon{err: errors.New("beacon down")}}

	nonce := svc.GenerateNonce(context.Background())

	assert.Len(t, nonce, 32)
	_, err := hex.DecodeString(nonce)
	require.NoError(t, err)
}
