// File: internal/model/user.go
package model

import "time"

// Role 使用者權限等級
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEditor     Role = "EDITOR"
	RoleUser       Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleUser:
		return true
	}
	return false
}

// IsAdmin reports whether r may manage users, donations and logs.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// User is the sanitized account record. It never carries a password.
type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             Role       `json:"role"`
	BloodGroup       string     `json:"bloodGroup"`
	Location         string     `json:"location"`
	Phone            string     `json:"phone"`
	LastDonationDate *time.Time `json:"lastDonationDate,omitempty"`
}
