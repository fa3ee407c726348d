// File: internal/model/donation.go
package model

import "time"

type DonationStatus string

const (
	DonationPending   DonationStatus = "PENDING"
	DonationCompleted DonationStatus = "COMPLETED"
	DonationRejected  DonationStatus = "REJECTED"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationCompleted, DonationRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s DonationStatus) Terminal() bool {
	return s == DonationCompleted || s == DonationRejected
}

// DonationRecord 一筆捐血紀錄，Units 單位為毫升
type DonationRecord struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	UserName       string         `json:"userName"`
	UserBloodGroup string         `json:"userBloodGroup"`
	DonationDate   time.Time      `json:"donationDate"`
	Location       string         `json:"location"`
	Units          int            `json:"units"`
	Status         DonationStatus `json:"status"`
}
