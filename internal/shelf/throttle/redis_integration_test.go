//go:build integration

package throttle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedisAgainstRealServer runs the fixed window against a redis
// container, to catch behaviour miniredis does not model.
func TestRedisAgainstRealServer(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	th := NewRedis(client, 2, 2*time.Second)
	for range 2 {
		ok, _, err := th.Allow(ctx, "it")
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, retry, err := th.Allow(ctx, "it")
	require.NoError(t, err)
	require.False(t, ok)
	require.LessOrEqual(t, retry, 2*time.Second)

	require.Eventually(t, func() bool {
		ok, _, err := th.Allow(ctx, "it")
		return err == nil && ok
	}, 5*time.Second, 250*time.Millisecond)
}
