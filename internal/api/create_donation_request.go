// File: internal/api/create_donation_request.go
package api

import "time"

// CreateDonationRequest 新增捐血紀錄
// userId 與 status 只有管理員可以指定
// swagger:model api.CreateDonationRequest
type CreateDonationRequest struct {
	UserID         string    `json:"userId,omitempty" example:"user-1"`
	UserName       string    `json:"userName,omitempty" example:"Rahim Uddin"`
	UserBloodGroup string    `json:"userBloodGroup,omitempty" example:"A+"`
	DonationDate   time.Time `json:"donationDate" example:"2024-01-15T00:00:00Z"`
	Location       string    `json:"location" validate:"required" example:"Dhaka Medical College"`
	Units          int       `json:"units" validate:"required,gt=0" example:"450"`
	Status         string    `json:"status,omitempty" validate:"omitempty,oneof=PENDING COMPLETED REJECTED" example:"PENDING"`
}
