// File: internal/model/audit_log.go
package model

import "time"

const (
	ActionLogin          = "LOGIN"
	ActionLogout         = "LOGOUT"
	ActionRegister       = "REGISTER"
	ActionPasswordChange = "PASSWORD_CHANGE"
	ActionDonationAdd    = "DONATION_ADD"
	ActionDonationUpdate = "DONATION_UPDATE"
	ActionProfileUpdate  = "PROFILE_UPDATE"
)

// AuditLog is one append-only entry. Action is a free-text tag.
type AuditLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Details   string    `json:"details"`
}
