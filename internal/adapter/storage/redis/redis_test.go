package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"growfi-backend/config"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.RedisConfig{
		Host:        "cache.internal",
		Port:        6380,
		DB:          3,
		PoolSize:    32,
		DialTimeout: 2 * time.Second,
	})

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 32, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)

	// Zero values keep the go-redis defaults.
	opts = clientOptions(config.RedisConfig{Host: "localhost", Port: 6379})
	assert.Zero(t, opts.PoolSize)
	assert.Zero(t, opts.DialTimeout)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr)}

	client, err := NewClient(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	hc := NewHealthCheck(client)
	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr)}
	mr.Close()

	_, err := NewClient(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "pinging redis")
}

func TestHealthCheck_Down(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	assert.Error(t, NewHealthCheck(client).Ping(context.Background()))
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	p, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return p
}
