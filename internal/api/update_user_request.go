// File: internal/api/update_user_request.go
package api

import "time"

// UpdateUserRequest 只更新有帶的欄位
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Name             *string    `json:"name,omitempty" validate:"omitempty,min=1" example:"Rahim Uddin"`
	Email            *string    `json:"email,omitempty" validate:"omitempty,email" example:"rahim@bloodlink.com"`
	BloodGroup       *string    `json:"bloodGroup,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-" example:"A+"`
	Location         *string    `json:"location,omitempty" example:"Chattogram"`
	Phone            *string    `json:"phone,omitempty" example:"01800000000"`
	LastDonationDate *time.Time `json:"lastDonationDate,omitempty"`
}

// AdminUpdateUserRequest 管理員可另外調整角色
// swagger:model api.AdminUpdateUserRequest
type AdminUpdateUserRequest struct {
	UpdateUserRequest
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=SUPERADMIN ADMIN EDITOR USER" example:"EDITOR"`
}
