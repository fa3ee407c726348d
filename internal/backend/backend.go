// Package backend is the storage-backed stand-in for the remote donor API.
//
// Every collection (users, donations, audit logs, session marker) is one
// JSON blob under a fixed key. Each operation reads the whole collection,
// mutates it in memory and writes it back. Operations are serialized by a
// mutex, so concurrent HTTP requests never interleave a read-modify-write.
//
// A mutation that touches several collections is staged in a changeSet and
// committed once the latency wait is over; from then on the caller's
// cancellation is ignored, and a failed write restores the keys already
// written.
package backend

import (
	"context"
	"errors"
	"sync"
	"time"

	"bloodlink/internal/service"
	"bloodlink/internal/storage"
	"bloodlink/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	KeyUsers     = "bloodlink_users"
	KeyDonations = "bloodlink_donations"
	KeyLogs      = "bloodlink_logs"
	KeySession   = "bloodlink_session"
)

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailExists            = errors.New("email already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrNoSession              = errors.New("no active session")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidStatus          = errors.New("invalid donation status")
	ErrInvalidTransition      = errors.New("donation status cannot change from its current state")
)

// Options 設定 Backend 行為
type Options struct {
	// Latency 模擬網路延遲；寫入與登入等待全額，讀取等待一半
	Latency time.Duration
	Logger  zerolog.Logger
	// Workers 為初始化時並行雜湊種子密碼的 worker 數
	Workers int
}

type Backend struct {
	store   storage.Store
	latency time.Duration
	log     zerolog.Logger
	workers int

	mu sync.Mutex

	now     func() time.Time
	newID   func() string
	hash    func(string) (string, error)
	compare func(hash, password string) error
	newPool func(int) worker.Pool
}

func New(store storage.Store, opts Options) *Backend {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Backend{
		store:   store,
		latency: opts.Latency,
		log:     opts.Logger.With().Str("component", "backend").Logger(),
		workers: workers,
		now:     time.Now,
		newID:   uuid.NewString,
		hash:    service.HashPassword,
		compare: service.ComparePassword,
		newPool: worker.NewPool,
	}
}

// Ping reports whether the underlying store is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.store.Ping(ctx)
}

// wait 模擬非同步延遲，可被 ctx 取消
func (b *Backend) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (b *Backend) writeDelay(ctx context.Context) error { return b.wait(ctx, b.latency) }

func (b *Backend) readDelay(ctx context.Context) error { return b.wait(ctx, b.latency/2) }
