package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACRoundTrip(t *testing.T) {
	key := []byte("test-key")

	signature := GenerateHMAC("payload", key)
	assert.True(t, ValidateHMAC("payload", signature, key))
	assert.False(t, ValidateHMAC("tampered", signature, key))
	assert.False(t, ValidateHMAC("payload", signature, []byte("other-key")))
}

func TestSignReceiptIsDeterministic(t *testing.T) {
	key := []byte("test-key")

	first := SignReceipt("RCT-20240101120000-ABCD1234", 1000, key)
	second := SignReceipt("RCT-20240101120000-ABCD1234", 1000, key)
	assert.Equal(t, first, second)

	// Другая сумма дает другую подпись
	other := SignReceipt("RCT-20240101120000-ABCD1234", 1001, key)
	assert.NotEqual(t, first, other)
}

func TestGenerateSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestGenerateRandomKey(t *testing.T) {
	key, err := GenerateRandomKey(32)
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestExpiration(t *testing.T) {
	future := GenerateExpirationTime(time.Hour)
	assert.False(t, IsExpired(future))
	assert.True(t, IsExpired(time.Now().Add(-time.Minute)))
}
