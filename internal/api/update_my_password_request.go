package api

// swagger:model api.UpdateMyPasswordRequest
type UpdateMyPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" validate:"required" example:"OldSecret123!"`
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,min=6" example:"NewSecret456!"`
}
