package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("client"))
	assert.True(t, rl.Allow("client"))
	assert.False(t, rl.Allow("client"))
	assert.Equal(t, 0, rl.GetRemaining("client"))

	// Другой ключ считается отдельно
	assert.True(t, rl.Allow("other"))
	assert.Equal(t, 1, rl.GetRemaining("other"))

	rl.Reset("client")
	assert.True(t, rl.Allow("client"))
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow("client"))
	assert.False(t, rl.Allow("client"))

	// После выхода запроса из окна лимит освобождается
	time.Sleep(25 * time.Millisecond)
	assert.True(t, rl.Allow("client"))
}
