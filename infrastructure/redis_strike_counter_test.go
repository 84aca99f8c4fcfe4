package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
			Labels:       map[string]string{"arcade-test": "infrastructure"},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := ConnectRedis(ctx, endpoint, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStrikeCounter(t *testing.T) {
	client := setupRedis(t)
	counter := NewRedisStrikeCounter(client, time.Minute)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := counter.Increment(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Strikes are per account
	other, err := counter.Increment(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)

	ttl, err := client.TTL(ctx, strikeKey(11)).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl %s", ttl)

	require.NoError(t, counter.Reset(ctx, 11))
	got, err := counter.Increment(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestRedisStrikeCounterWindowExpires(t *testing.T) {
	client := setupRedis(t)
	counter := NewRedisStrikeCounter(client, time.Second)
	ctx := context.Background()

	_, err := counter.Increment(ctx, 21)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		n, err := client.Exists(ctx, strikeKey(21)).Result()
		return err == nil && n == 0
	}, 5*time.Second, 100*time.Millisecond)
}
