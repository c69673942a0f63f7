package models

import "time"

// Admin roles.
const (
	RoleViewer     = "Viewer"
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "Super Admin"
)

// Admin is an application user account. The password column holds a
// bcrypt hash and is never serialized to clients.
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"not null" json:"fullName"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
