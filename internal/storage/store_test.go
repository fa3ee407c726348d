package storage

import (
	"context"
	"path/filepath"
	"testing"

	"bloodlink/internal/cache"
	"bloodlink/internal/database"

	"github.com/stretchr/testify/require"
)

// exerciseStore 對任一 Store 實作跑同一組行為測試
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "users")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "users", []byte(`[{"id":"1"}]`)))
	v, err := s.Get(ctx, "users")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"1"}]`, string(v))

	require.NoError(t, s.Set(ctx, "users", []byte(`[]`)))
	v, err = s.Get(ctx, "users")
	require.NoError(t, err)
	require.Equal(t, "[]", string(v))

	require.NoError(t, s.Delete(ctx, "users"))
	_, err = s.Get(ctx, "users")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "missing"))
	require.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)

	// 回傳值不可與內部資料共用
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("abc")))
	v, _ := s.Get(ctx, "k")
	v[0] = 'x'
	v2, _ := s.Get(ctx, "k")
	require.Equal(t, "abc", string(v2))
	require.NoError(t, s.Close())
}

func TestRedisStore(t *testing.T) {
	c := cache.NewMemoryFake()
	s := NewRedisStore(c, "bl:")
	exerciseStore(t, s)

	require.NoError(t, s.Set(context.Background(), "logs", []byte("[]")))
	raw, err := c.Get(context.Background(), "bl:logs").Result()
	require.NoError(t, err)
	require.Equal(t, "[]", raw)
	require.NoError(t, s.Close())
}

func TestPostgresStoreWithKVFake(t *testing.T) {
	closed := false
	db := database.NewKVFake()
	db.CloseFn = func() { closed = true }
	s := NewPostgresStore(db)
	exerciseStore(t, s)
	require.NoError(t, s.Close())
	require.True(t, closed)
}

func TestSQLiteStore(t *testing.T) {
	_, err := OpenSQLite("  ")
	require.Error(t, err)

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "bloodlink.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bloodlink.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "donations", []byte(`[1]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	v, err := s.Get(context.Background(), "donations")
	require.NoError(t, err)
	require.Equal(t, "[1]", string(v))
}
