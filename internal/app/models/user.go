package models

import "time"

// RoleType defines the user role type
type RoleType string

const (
	RoleCoordinator RoleType = "COORDINATOR"
	RoleStaff       RoleType = "STAFF"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Username    string     `json:"username" db:"username" example:"admin"`
	Password    string     `json:"-" db:"password"` // Hashed password, excluded from JSON
	Name        string     `json:"name" db:"name" example:"School Coordinator"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"COORDINATOR"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}
