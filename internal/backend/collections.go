package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bloodlink/internal/model"
	"bloodlink/internal/storage"
)

// userRecord 是持久化格式，比 model.User 多一個密碼雜湊
type userRecord struct {
	model.User
	Password string `json:"password"`
}

// userTable 讀入後依 id 與 email 建索引
type userTable struct {
	rows    []userRecord
	byID    map[string]int
	byEmail map[string]int
}

func newUserTable(rows []userRecord) *userTable {
	t := &userTable{
		rows:    rows,
		byID:    make(map[string]int, len(rows)),
		byEmail: make(map[string]int, len(rows)),
	}
	for i, r := range rows {
		t.byID[r.ID] = i
		t.byEmail[r.Email] = i
	}
	return t
}

func (t *userTable) get(id string) (*userRecord, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.rows[i], true
}

func (t *userTable) findEmail(email string) (*userRecord, bool) {
	i, ok := t.byEmail[email]
	if !ok {
		return nil, false
	}
	return &t.rows[i], true
}

func (t *userTable) add(r userRecord) {
	t.rows = append(t.rows, r)
	t.byID[r.ID] = len(t.rows) - 1
	t.byEmail[r.Email] = len(t.rows) - 1
}

// reindexEmail moves the email index entry of id from old to its current value.
func (t *userTable) reindexEmail(id, old string) {
	i := t.byID[id]
	delete(t.byEmail, old)
	t.byEmail[t.rows[i].Email] = i
}

func (t *userTable) sanitized() []model.User {
	out := make([]model.User, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.User
	}
	return out
}

// donationTable is kept newest-first.
type donationTable struct {
	rows []model.DonationRecord
	byID map[string]int
}

func newDonationTable(rows []model.DonationRecord) *donationTable {
	t := &donationTable{rows: rows}
	t.reindex()
	return t
}

func (t *donationTable) reindex() {
	t.byID = make(map[string]int, len(t.rows))
	for i, r := range t.rows {
		t.byID[r.ID] = i
	}
}

func (t *donationTable) get(id string) (*model.DonationRecord, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.rows[i], true
}

func (t *donationTable) prepend(r model.DonationRecord) {
	t.rows = append([]model.DonationRecord{r}, t.rows...)
	t.reindex()
}

// load 讀出整個集合；鍵不存在時回傳空集合
func load[T any](ctx context.Context, s storage.Store, key string) ([]T, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return rows, nil
}

// save 將整個集合寫回
func save[T any](ctx context.Context, s storage.Store, key string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (b *Backend) loadUsers(ctx context.Context) (*userTable, error) {
	rows, err := load[userRecord](ctx, b.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	return newUserTable(rows), nil
}

func (b *Backend) loadDonations(ctx context.Context) (*donationTable, error) {
	rows, err := load[model.DonationRecord](ctx, b.store, KeyDonations)
	if err != nil {
		return nil, err
	}
	return newDonationTable(rows), nil
}

type change struct {
	key string
	raw []byte
	del bool
}

// changeSet 收集一次操作要寫回的鍵，由 commit 依序寫入
type changeSet struct {
	changes []change
	audit   *model.AuditLog
}

func stage[T any](cs *changeSet, key string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	cs.put(key, raw)
	return nil
}

func (cs *changeSet) put(key string, raw []byte) {
	cs.changes = append(cs.changes, change{key: key, raw: raw})
}

func (cs *changeSet) drop(key string) {
	cs.changes = append(cs.changes, change{key: key, del: true})
}

type priorValue struct {
	key     string
	raw     []byte
	existed bool
}

// commit 依序寫入 cs；任一步失敗時把已寫入的鍵還原成原值，呼叫端須持有 b.mu
func (b *Backend) commit(ctx context.Context, cs *changeSet) error {
	done := make([]priorValue, 0, len(cs.changes))
	for _, ch := range cs.changes {
		old, err := b.store.Get(ctx, ch.key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return b.rollback(ctx, done, fmt.Errorf("load %s: %w", ch.key, err))
		}
		prior := priorValue{key: ch.key, raw: old, existed: err == nil}

		if ch.del {
			err = b.store.Delete(ctx, ch.key)
		} else {
			err = b.store.Set(ctx, ch.key, ch.raw)
		}
		if err != nil {
			return b.rollback(ctx, done, fmt.Errorf("save %s: %w", ch.key, err))
		}
		done = append(done, prior)
	}
	if a := cs.audit; a != nil {
		b.log.Debug().Str("action", a.Action).Str("user_id", a.UserID).Msg(a.Details)
	}
	return nil
}

func (b *Backend) rollback(ctx context.Context, done []priorValue, cause error) error {
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		p := done[i]
		var err error
		if p.existed {
			err = b.store.Set(ctx, p.key, p.raw)
		} else {
			err = b.store.Delete(ctx, p.key)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", p.key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		b.log.Error().Err(err).AnErr("cause", cause).Msg("rollback incomplete")
		return errors.Join(cause, err)
	}
	return cause
}
