package presence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, "wedding", 30*time.Second)
}

func TestLiveEmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)

	users, err := s.Live(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users, "empty presence must serialize as [], not null")
	assert.Empty(t, users)
}

func TestHeartbeatThenLive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Heartbeat(ctx, "Alice", "dev-a"))
	require.NoError(t, s.Heartbeat(ctx, "Bob", "dev-b"))

	users, err := s.Live(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	names := map[string]bool{}
	for _, u := range users {
		names[u.UserName] = true
		assert.NotZero(t, u.LastSeen)
	}
	assert.True(t, names["Alice"])
	assert.True(t, names["Bob"])
}

func TestLeaveRemovesUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Heartbeat(ctx, "Alice", "dev-a"))
	require.NoError(t, s.Leave(ctx, "Alice", "dev-a"))

	users, err := s.Live(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
