package backend

import (
	"context"
	"time"

	"bloodlink/internal/model"
)

// ProfileUpdate 只有非 nil 欄位會覆寫到既有資料上
type ProfileUpdate struct {
	Name             *string
	Email            *string
	Role             *model.Role
	BloodGroup       *string
	Location         *string
	Phone            *string
	LastDonationDate *time.Time
}

// GetUsers returns every user with the password stripped.
func (b *Backend) GetUsers(ctx context.Context) ([]model.User, error) {
	if err := b.readDelay(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	users, err := b.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	return users.sanitized(), nil
}

// GetUser returns one sanitized user or ErrUserNotFound.
func (b *Backend) GetUser(ctx context.Context, userID string) (model.User, error) {
	if err := b.readDelay(ctx); err != nil {
		return model.User{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	users, err := b.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	rec, ok := users.get(userID)
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return rec.User, nil
}

// UpdateUserProfile 淺層合併 patch，記錄 PROFILE_UPDATE
func (b *Backend) UpdateUserProfile(ctx context.Context, userID string, patch ProfileUpdate) (model.User, error) {
	if err := b.writeDelay(ctx); err != nil {
		return model.User{}, err
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return model.User{}, ErrInvalidRole
	}

	ctx = context.WithoutCancel(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	users, err := b.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	rec, ok := users.get(userID)
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	if patch.Email != nil && *patch.Email != rec.Email {
		if _, taken := users.findEmail(*patch.Email); taken {
			return model.User{}, ErrEmailExists
		}
		old := rec.Email
		rec.Email = *patch.Email
		users.reindexEmail(rec.ID, old)
	}
	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Role != nil {
		rec.Role = *patch.Role
	}
	if patch.BloodGroup != nil {
		rec.BloodGroup = *patch.BloodGroup
	}
	if patch.Location != nil {
		rec.Location = *patch.Location
	}
	if patch.Phone != nil {
		rec.Phone = *patch.Phone
	}
	if patch.LastDonationDate != nil {
		d := *patch.LastDonationDate
		rec.LastDonationDate = &d
	}

	var cs changeSet
	if err := stage(&cs, KeyUsers, users.rows); err != nil {
		return model.User{}, err
	}
	if err := b.stageLog(ctx, &cs, model.ActionProfileUpdate, rec.ID, rec.Name, "Profile updated"); err != nil {
		return model.User{}, err
	}
	if err := b.commit(ctx, &cs); err != nil {
		return model.User{}, err
	}
	return rec.User, nil
}
