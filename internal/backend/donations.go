package backend

import (
	"context"
	"fmt"
	"time"

	"bloodlink/internal/model"
)

// DonationInput 新增捐血紀錄；Status 空白時為 PENDING，DonationDate 為零值時取今天
type DonationInput struct {
	UserID         string
	UserName       string
	UserBloodGroup string
	DonationDate   time.Time
	Location       string
	Units          int
	Status         model.DonationStatus
}

// GetDonations returns every donation record, newest first.
func (b *Backend) GetDonations(ctx context.Context) ([]model.DonationRecord, error) {
	if err := b.readDelay(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	donations, err := b.loadDonations(ctx)
	if err != nil {
		return nil, err
	}
	if donations.rows == nil {
		return []model.DonationRecord{}, nil
	}
	return donations.rows, nil
}

// GetUserDonations returns the donations owned by userID.
func (b *Backend) GetUserDonations(ctx context.Context, userID string) ([]model.DonationRecord, error) {
	if err := b.readDelay(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	donations, err := b.loadDonations(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.DonationRecord{}
	for _, d := range donations.rows {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// AddDonation 新增一筆紀錄於最前端並記錄 DONATION_ADD；
// 若建立時即為 COMPLETED，同步更新捐血者的 LastDonationDate
func (b *Backend) AddDonation(ctx context.Context, in DonationInput) (model.DonationRecord, error) {
	if err := b.writeDelay(ctx); err != nil {
		return model.DonationRecord{}, err
	}
	if in.Status == "" {
		in.Status = model.DonationPending
	}
	if !in.Status.Valid() {
		return model.DonationRecord{}, ErrInvalidStatus
	}
	if in.DonationDate.IsZero() {
		in.DonationDate = b.now().UTC().Truncate(24 * time.Hour)
	}

	ctx = context.WithoutCancel(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	donations, err := b.loadDonations(ctx)
	if err != nil {
		return model.DonationRecord{}, err
	}
	rec := model.DonationRecord{
		ID:             b.newID(),
		UserID:         in.UserID,
		UserName:       in.UserName,
		UserBloodGroup: in.UserBloodGroup,
		DonationDate:   in.DonationDate,
		Location:       in.Location,
		Units:          in.Units,
		Status:         in.Status,
	}
	donations.prepend(rec)

	var cs changeSet
	if err := stage(&cs, KeyDonations, donations.rows); err != nil {
		return model.DonationRecord{}, err
	}
	details := fmt.Sprintf("Donation of %dml logged at %s", rec.Units, rec.Location)
	if err := b.stageLog(ctx, &cs, model.ActionDonationAdd, rec.UserID, rec.UserName, details); err != nil {
		return model.DonationRecord{}, err
	}
	if rec.Status == model.DonationCompleted {
		users, err := b.loadUsers(ctx)
		if err != nil {
			return model.DonationRecord{}, err
		}
		if err := b.stageDonated(&cs, users, rec.UserID, rec.DonationDate); err != nil {
			return model.DonationRecord{}, err
		}
	}
	if err := b.commit(ctx, &cs); err != nil {
		return model.DonationRecord{}, err
	}
	return rec, nil
}

// UpdateDonationStatus 找不到 id 時不做任何事；COMPLETED 會同步 LastDonationDate
func (b *Backend) UpdateDonationStatus(ctx context.Context, id string, status model.DonationStatus, adminID string) error {
	if err := b.writeDelay(ctx); err != nil {
		return err
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}

	ctx = context.WithoutCancel(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	donations, err := b.loadDonations(ctx)
	if err != nil {
		return err
	}
	rec, ok := donations.get(id)
	if !ok {
		return nil
	}
	if rec.Status.Terminal() || status == model.DonationPending {
		return ErrInvalidTransition
	}
	users, err := b.loadUsers(ctx)
	if err != nil {
		return err
	}
	rec.Status = status

	var cs changeSet
	if err := stage(&cs, KeyDonations, donations.rows); err != nil {
		return err
	}
	adminName := "Admin"
	if admin, ok := users.get(adminID); ok {
		adminName = admin.Name
	}
	details := fmt.Sprintf("Donation %s marked %s", rec.ID, status)
	if err := b.stageLog(ctx, &cs, model.ActionDonationUpdate, adminID, adminName, details); err != nil {
		return err
	}
	if status == model.DonationCompleted {
		if err := b.stageDonated(&cs, users, rec.UserID, rec.DonationDate); err != nil {
			return err
		}
	}
	return b.commit(ctx, &cs)
}

// stageDonated 將 donationDate 寫到使用者的 LastDonationDate；
// 使用者不存在時略過 (捐血紀錄不檢查參照完整性)
func (b *Backend) stageDonated(cs *changeSet, users *userTable, userID string, on time.Time) error {
	rec, ok := users.get(userID)
	if !ok {
		b.log.Warn().Str("user_id", userID).Msg("donation references unknown user")
		return nil
	}
	d := on
	rec.LastDonationDate = &d
	return stage(cs, KeyUsers, users.rows)
}
