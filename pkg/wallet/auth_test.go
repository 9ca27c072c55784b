package wallet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	token, err := GenerateToken("0xAbCdEf0000000000000000000000000000000001", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef0000000000000000000000000000000001", claims.Address)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("0x01", "secret", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(token, "other")
	require.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	token, err := GenerateToken("0x01", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "secret")
	require.Error(t, err)
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	_, err := GenerateToken("0x01", "", time.Hour)
	require.Error(t, err)
}
