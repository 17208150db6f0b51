package models

import "gorm.io/gorm"

// Roles a user can hold. Admins manage the catalog and order statuses.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a customer or canteen administrator.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:50;default:customer" json:"role"`
}

// IsAdmin reports whether the user may access the admin surface.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
