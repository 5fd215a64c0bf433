package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateLimiter_FullMapKeepsLimitedClients(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, zap.NewNop())
	rl.maxClients = 2

	require.True(t, rl.getLimiter("10.0.0.1").Allow())
	require.True(t, rl.getLimiter("10.0.0.2").Allow())

	// Every tracked client is inside its burst: a new address is refused
	// instead of resetting anyone.
	assert.Nil(t, rl.getLimiter("10.0.0.3"))
	assert.False(t, rl.getLimiter("10.0.0.1").Allow())
	assert.False(t, rl.getLimiter("10.0.0.2").Allow())
	assert.Len(t, rl.limiters, 2)
}

func TestRateLimiter_FullMapEvictsIdleBucket(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, zap.NewNop())
	rl.maxClients = 2

	require.NotNil(t, rl.getLimiter("idle"))
	require.True(t, rl.getLimiter("busy").Allow())

	fresh := rl.getLimiter("new")
	require.NotNil(t, fresh)
	assert.True(t, fresh.Allow())
	assert.NotContains(t, rl.limiters, "idle")
	assert.False(t, rl.getLimiter("busy").Allow())
}

func TestRateLimiter_CleanupKeepsActiveBuckets(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, zap.NewNop())
	require.NotNil(t, rl.getLimiter("idle"))
	require.True(t, rl.getLimiter("busy").Allow())

	rl.Cleanup()

	assert.NotContains(t, rl.limiters, "idle")
	assert.False(t, rl.getLimiter("busy").Allow())
}
