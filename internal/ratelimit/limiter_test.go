package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_NilClientIsDisabled(t *testing.T) {
	l := NewLimiter(nil)
	ctx := context.Background()

	// Recording and checking are both no-ops without Redis
	for i := 0; i < defaultLimit*2; i++ {
		require.NoError(t, l.RecordIPRequest(ctx, "203.0.113.7", "login"))
	}

	exceeded, err := l.CheckIPRateLimit(ctx, "203.0.113.7", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestIPKey_SeparatesPurposes(t *testing.T) {
	assert.Equal(t, "ratelimit:login:203.0.113.7", ipKey("login", "203.0.113.7"))
	assert.NotEqual(t, ipKey("login", "203.0.113.7"), ipKey("register", "203.0.113.7"))
}
