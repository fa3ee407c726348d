package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bloodlink/internal/model"
	"bloodlink/internal/storage"
)

var errPoolStopped = errors.New("worker pool rejected task")

type seedUser struct {
	user     model.User
	password string
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedUsers() []seedUser {
	last := date(2024, time.January, 15)
	return []seedUser{
		{
			user: model.User{
				ID:         "admin-1",
				Name:       "Super Admin",
				Email:      "shozolesm4409@gmail.com",
				Role:       model.RoleSuperAdmin,
				BloodGroup: "O+",
				Location:   "Dhaka",
				Phone:      "01700000000",
			},
			password: "admin123",
		},
		{
			user: model.User{
				ID:               "user-1",
				Name:             "Rahim Uddin",
				Email:            "user@bloodlink.com",
				Role:             model.RoleUser,
				BloodGroup:       "A+",
				Location:         "Chattogram",
				Phone:            "01800000000",
				LastDonationDate: &last,
			},
			password: "user123",
		},
	}
}

func seedDonations() []model.DonationRecord {
	return []model.DonationRecord{
		{
			ID:             "donation-2",
			UserID:         "user-1",
			UserName:       "Rahim Uddin",
			UserBloodGroup: "A+",
			DonationDate:   date(2024, time.January, 15),
			Location:       "Chattogram Medical College Hospital",
			Units:          450,
			Status:         model.DonationCompleted,
		},
		{
			ID:             "donation-1",
			UserID:         "user-1",
			UserName:       "Rahim Uddin",
			UserBloodGroup: "A+",
			DonationDate:   date(2023, time.September, 10),
			Location:       "Dhaka Medical College Hospital",
			Units:          450,
			Status:         model.DonationCompleted,
		},
	}
}

// Init 第一次啟動時寫入種子資料；已存在的集合不會被覆寫
func (b *Backend) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.store.Get(ctx, KeyUsers); errors.Is(err, storage.ErrNotFound) {
		users, err := b.hashSeedUsers(seedUsers())
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		if err := save(ctx, b.store, KeyUsers, users); err != nil {
			return err
		}
		b.log.Info().Int("count", len(users)).Msg("seeded users")
	} else if err != nil {
		return fmt.Errorf("check %s: %w", KeyUsers, err)
	}

	if _, err := b.store.Get(ctx, KeyDonations); errors.Is(err, storage.ErrNotFound) {
		donations := seedDonations()
		if err := save(ctx, b.store, KeyDonations, donations); err != nil {
			return err
		}
		b.log.Info().Int("count", len(donations)).Msg("seeded donations")
	} else if err != nil {
		return fmt.Errorf("check %s: %w", KeyDonations, err)
	}
	return nil
}

// hashSeedUsers 以 worker pool 並行計算 bcrypt
func (b *Backend) hashSeedUsers(seeds []seedUser) ([]userRecord, error) {
	out := make([]userRecord, len(seeds))
	errs := make([]error, len(seeds))

	pool := b.newPool(b.workers)
	for i := range seeds {
		i := i
		ok := pool.Submit(func() {
			out[i].User = seeds[i].user
			out[i].Password, errs[i] = b.hash(seeds[i].password)
		})
		if !ok {
			pool.Stop()
			return nil, fmt.Errorf("hash %s: %w", seeds[i].user.Email, errPoolStopped)
		}
	}
	pool.Stop()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
