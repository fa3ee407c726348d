// File: internal/api/auth_response.go
package api

import (
	"time"

	"bloodlink/internal/model"
)

// AuthResponse 登入或註冊成功後回傳使用者與存取令牌
// swagger:model api.AuthResponse
type AuthResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token" example:"eyJhbGciOi..."`
	ExpiresAt   time.Time  `json:"expires_at" example:"2025-05-09T15:04:05Z"`
}
