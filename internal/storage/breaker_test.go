package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	err   error
	calls int
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.MemoryStore.Get(ctx, key)
}

func TestBreakerStorePassesThrough(t *testing.T) {
	b := NewBreakerStore(NewMemoryStore(), "test", zerolog.Nop())
	exerciseStore(t, b)
	require.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerStoreNotFoundDoesNotTrip(t *testing.T) {
	next := &failingStore{MemoryStore: NewMemoryStore()}
	b := NewBreakerStore(next, "test", zerolog.Nop())
	for i := 0; i < 10; i++ {
		_, err := b.Get(context.Background(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
	}
	require.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerStoreOpensOnFailures(t *testing.T) {
	next := &failingStore{MemoryStore: NewMemoryStore(), err: errors.New("down")}
	b := NewBreakerStore(next, "test", zerolog.Nop())
	for i := 0; i < 5; i++ {
		_, err := b.Get(context.Background(), "users")
		require.Error(t, err)
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Get(context.Background(), "users")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, 5, next.calls)
}

func TestBreakerStoreContextErrorsDoNotTrip(t *testing.T) {
	for _, cause := range []error{context.Canceled, context.DeadlineExceeded} {
		next := &failingStore{MemoryStore: NewMemoryStore(), err: fmt.Errorf("get users: %w", cause)}
		b := NewBreakerStore(next, "test", zerolog.Nop())
		for i := 0; i < 10; i++ {
			_, err := b.Get(context.Background(), "users")
			require.ErrorIs(t, err, cause)
		}
		require.Equal(t, gobreaker.StateClosed, b.State())
		require.Equal(t, 10, next.calls)
	}
}
