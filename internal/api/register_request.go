// File: internal/api/register_request.go
package api

// RegisterRequest 註冊新捐血者；role 不開放自行指定
// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name       string `json:"name" form:"name" validate:"required" example:"Karim Hossain"`
	Email      string `json:"email" form:"email" validate:"required,email" example:"karim@bloodlink.com"`
	Password   string `json:"password" form:"password" validate:"required,min=6" example:"Secret123!"`
	BloodGroup string `json:"bloodGroup" form:"bloodGroup" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-" example:"B+"`
	Location   string `json:"location" form:"location" validate:"required" example:"Sylhet"`
	Phone      string `json:"phone" form:"phone" validate:"required" example:"01700000000"`
}
