package database

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB 是 *pgxpool.Pool 的最小子集，storage.PostgresStore 只需要這些；測試以 FakeDB 取代
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(context.Context) error
	Close()
}

var _ DB = (*pgxpool.Pool)(nil)

type FakeDB struct {
	ExecFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	PingFn     func(ctx context.Context) error
	CloseFn    func()
}

func (f *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.ExecFn != nil {
		return f.ExecFn(ctx, sql, args...)
	}
	panic("unexpected Exec")
}

func (f *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.QueryRowFn != nil {
		return f.QueryRowFn(ctx, sql, args...)
	}
	panic("unexpected QueryRow")
}

// Ping 未設定時視為健康
func (f *FakeDB) Ping(ctx context.Context) error {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	return nil
}

func (f *FakeDB) Close() {
	if f.CloseFn != nil {
		f.CloseFn()
	}
}

// blobRow 模擬單欄位 SELECT value 的結果
type blobRow struct {
	val []byte
	err error
}

func (r blobRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return errors.New("blobRow: expected one destination")
	}
	p, ok := dest[0].(*[]byte)
	if !ok {
		return errors.New("blobRow: destination must be *[]byte")
	}
	*p = append([]byte(nil), r.val...)
	return nil
}

// NewKVFake 回傳以 map 模擬 kv_collections 資料表的 FakeDB
// 只認得 storage.PostgresStore 發出的 SELECT / INSERT ... ON CONFLICT / DELETE
func NewKVFake() *FakeDB {
	var mu sync.Mutex
	rows := map[string][]byte{}

	return &FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			mu.Lock()
			defer mu.Unlock()
			if !strings.HasPrefix(strings.TrimSpace(sql), "SELECT value FROM kv_collections") {
				return blobRow{err: errors.New("NewKVFake: unsupported query")}
			}
			v, ok := rows[args[0].(string)]
			if !ok {
				return blobRow{err: pgx.ErrNoRows}
			}
			return blobRow{val: v}
		},
		ExecFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			mu.Lock()
			defer mu.Unlock()
			key := args[0].(string)
			switch stmt := strings.TrimSpace(sql); {
			case strings.HasPrefix(stmt, "INSERT INTO kv_collections"):
				rows[key] = append([]byte(nil), args[1].([]byte)...)
				return pgconn.NewCommandTag("INSERT 0 1"), nil
			case strings.HasPrefix(stmt, "DELETE FROM kv_collections"):
				if _, ok := rows[key]; !ok {
					return pgconn.NewCommandTag("DELETE 0"), nil
				}
				delete(rows, key)
				return pgconn.NewCommandTag("DELETE 1"), nil
			}
			return pgconn.CommandTag{}, errors.New("NewKVFake: unsupported statement")
		},
	}
}
