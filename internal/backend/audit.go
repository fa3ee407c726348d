package backend

import (
	"context"

	"bloodlink/internal/model"
)

// stageLog 把一筆新紀錄放在最前面並加入 cs；呼叫端須持有 b.mu
func (b *Backend) stageLog(ctx context.Context, cs *changeSet, action, userID, userName, details string) error {
	logs, err := load[model.AuditLog](ctx, b.store, KeyLogs)
	if err != nil {
		return err
	}
	entry := model.AuditLog{
		ID:        b.newID(),
		Timestamp: b.now().UTC(),
		Action:    action,
		UserID:    userID,
		UserName:  userName,
		Details:   details,
	}
	logs = append([]model.AuditLog{entry}, logs...)
	if err := stage(cs, KeyLogs, logs); err != nil {
		return err
	}
	cs.audit = &entry
	return nil
}

// GetLogs returns the audit log newest-first.
func (b *Backend) GetLogs(ctx context.Context) ([]model.AuditLog, error) {
	if err := b.readDelay(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	logs, err := load[model.AuditLog](ctx, b.store, KeyLogs)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
