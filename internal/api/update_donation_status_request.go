package api

// swagger:model api.UpdateDonationStatusRequest
type UpdateDonationStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=COMPLETED REJECTED" example:"COMPLETED"`
}
