package storage

import (
	"context"
	"errors"
	"testing"

	"bloodlink/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

type fakeBlobRow struct {
	val []byte
	err error
}

func (r fakeBlobRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.val
	return nil
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Get ok", func(t *testing.T) {
		var gotKey any
		p := NewPostgresStore(&database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotKey = args[0]
				return fakeBlobRow{val: []byte("[]")}
			},
		})
		v, err := p.Get(ctx, "users")
		require.NoError(t, err)
		require.Equal(t, "[]", string(v))
		require.Equal(t, "users", gotKey)
	})

	t.Run("Get not found", func(t *testing.T) {
		p := NewPostgresStore(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row { return fakeBlobRow{err: pgx.ErrNoRows} },
		})
		_, err := p.Get(ctx, "users")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Get err", func(t *testing.T) {
		p := NewPostgresStore(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row { return fakeBlobRow{err: errors.New("down")} },
		})
		_, err := p.Get(ctx, "users")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("Set and Delete", func(t *testing.T) {
		var calls []string
		p := NewPostgresStore(&database.FakeDB{
			ExecFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
				calls = append(calls, args[0].(string))
				return pgconn.CommandTag{}, nil
			},
		})
		require.NoError(t, p.Set(ctx, "logs", []byte("[]")))
		require.NoError(t, p.Delete(ctx, "logs"))
		require.Equal(t, []string{"logs", "logs"}, calls)
	})

	t.Run("Set err", func(t *testing.T) {
		p := NewPostgresStore(&database.FakeDB{
			ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("fail")
			},
		})
		require.Error(t, p.Set(ctx, "logs", nil))
		require.Error(t, p.Delete(ctx, "logs"))
	})

	t.Run("Ping and Close", func(t *testing.T) {
		closed := false
		p := NewPostgresStore(&database.FakeDB{
			PingFn:  func(context.Context) error { return nil },
			CloseFn: func() { closed = true },
		})
		require.NoError(t, p.Ping(ctx))
		require.NoError(t, p.Close())
		require.True(t, closed)
	})
}
