package answercache

import (
	"context"
	"os"
	"testing"

	"github.com/love-prep/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopAlwaysFirst(t *testing.T) {
	var g Guard = Nop{}
	for i := 0; i < 3; i++ {
		first, err := g.First(context.Background(), 1, 1)
		require.NoError(t, err)
		assert.True(t, first)
	}
}

func TestConnectWithoutAddr(t *testing.T) {
	c, err := Connect(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestRedisGuard(t *testing.T) {
	addr := os.Getenv("LOVE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOVE_TEST_REDIS_ADDR not set, skipping redis test")
	}
	ctx := context.Background()
	client, err := Connect(ctx, config.RedisConfig{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.FlushDB(ctx).Err())

	g := NewRedisGuard(client)

	first, err := g.First(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = g.First(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, first, "same question inside the window is a duplicate")

	first, err = g.First(ctx, 1, 11)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = g.First(ctx, 2, 11)
	require.NoError(t, err)
	assert.True(t, first, "other users are independent")
}
