package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bloodlink/internal/model"
	"bloodlink/internal/storage"
)

// RegisterInput 註冊資料；Role 空白時預設為 USER
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       model.Role
	BloodGroup string
	Location   string
	Phone      string
}

type session struct {
	UserID    string    `json:"userId"`
	StartedAt time.Time `json:"startedAt"`
}

// Login 比對 email 與密碼雜湊，成功後寫入 session 並記錄 LOGIN
func (b *Backend) Login(ctx context.Context, email, password string) (model.User, error) {
	if err := b.writeDelay(ctx); err != nil {
		return model.User{}, err
	}
	ctx = context.WithoutCancel(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	users, err := b.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	rec, ok := users.findEmail(email)
	if !ok || b.compare(rec.Password, password) != nil {
		b.log.Warn().Str("email", email).Msg("login rejected")
		return model.User{}, ErrInvalidCredentials
	}

	raw, err := json.Marshal(session{UserID: rec.ID, StartedAt: b.now().UTC()})
	if err != nil {
		return model.User{}, fmt.Errorf("encode session: %w", err)
	}
	var cs changeSet
	cs.put(KeySession, raw)
	if err := b.stageLog(ctx, &cs, model.ActionLogin, rec.ID, rec.Name, "User logged in"); err != nil {
		return model.User{}, err
	}
	if err := b.commit(ctx, &cs); err != nil {
		return model.User{}, err
	}
	return rec.User, nil
}

// Register 建立新帳號並記錄 REGISTER
func (b *Backend) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if err := b.writeDelay(ctx); err != nil {
		return model.User{}, err
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return model.User{}, ErrInvalidRole
	}

	ctx = context.WithoutCancel(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	users, err := b.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	if _, exists := users.findEmail(in.Email); exists {
		return model.User{}, ErrEmailExists
	}

	hash, err := b.hash(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	rec := userRecord{
		User: model.User{
			ID:         b.newID(),
			Name:       in.Name,
			Email:      in.Email,
			Role:       in.Role,
			BloodGroup: in.BloodGroup,
			Location:   in.Location,
			Phone:      in.Phone,
		},
		Password: hash,
	}
	users.add(rec)

	var cs changeSet
	if err := stage(&cs, KeyUsers, users.rows); err != nil {
		return model.User{}, err
	}
	if err := b.stageLog(ctx, &cs, model.ActionRegister, rec.ID, rec.Name, "New user registered: "+rec.Email); err != nil {
		return model.User{}, err
	}
	if err := b.commit(ctx, &cs); err != nil {
		return model.User{}, err
	}
	return rec.User, nil
}

// ChangePassword 驗證目前密碼後寫入新雜湊，記錄 PASSWORD_CHANGE
func (b *Backend) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	if err := b.writeDelay(ctx); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	users, err := b.loadUsers(ctx)
	if err != nil {
		return err
	}
	rec, ok := users.get(userID)
	if !ok {
		return ErrUserNotFound
	}
	if b.compare(rec.Password, current) != nil {
		return ErrInvalidCurrentPassword
	}
	hash, err := b.hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	rec.Password = hash

	var cs changeSet
	if err := stage(&cs, KeyUsers, users.rows); err != nil {
		return err
	}
	if err := b.stageLog(ctx, &cs, model.ActionPasswordChange, rec.ID, rec.Name, "Password changed"); err != nil {
		return err
	}
	return b.commit(ctx, &cs)
}

// CurrentUser 回傳 session 標記指向的使用者
func (b *Backend) CurrentUser(ctx context.Context) (model.User, error) {
	if err := b.readDelay(ctx); err != nil {
		return model.User{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, err := b.store.Get(ctx, KeySession)
	if errors.Is(err, storage.ErrNotFound) {
		return model.User{}, ErrNoSession
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load %s: %w", KeySession, err)
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.User{}, fmt.Errorf("decode %s: %w", KeySession, err)
	}

	users, err := b.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	rec, ok := users.get(s.UserID)
	if !ok {
		return model.User{}, ErrNoSession
	}
	return rec.User, nil
}

// Logout 清除 session 標記並記錄 LOGOUT
func (b *Backend) Logout(ctx context.Context, userID string) error {
	if err := b.writeDelay(ctx); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	users, err := b.loadUsers(ctx)
	if err != nil {
		return err
	}
	name := ""
	if rec, ok := users.get(userID); ok {
		name = rec.Name
	}
	var cs changeSet
	cs.drop(KeySession)
	if err := b.stageLog(ctx, &cs, model.ActionLogout, userID, name, "User logged out"); err != nil {
		return err
	}
	return b.commit(ctx, &cs)
}
