package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloodlink/internal/cache"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("conn refused")
	c := &cache.FakeCache{
		GetFn: func(context.Context, string) *redis.StringCmd { return redis.NewStringResult("", boom) },
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", boom)
		},
		DelFn: func(context.Context, ...string) *redis.IntCmd { return redis.NewIntResult(0, boom) },
	}
	s := NewRedisStore(c, "")

	_, err := s.Get(ctx, "users")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Set(ctx, "users", nil), boom)
	require.ErrorIs(t, s.Delete(ctx, "users"), boom)
}
