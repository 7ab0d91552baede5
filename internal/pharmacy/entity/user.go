package entity

import (
	"time"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is an operator of the admin panel.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:64;not null"`
	Email        string     `json:"email" gorm:"size:128;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Roles []Role `json:"roles,omitempty" gorm:"many2many:user_roles;"`

	// Not persisted, populated for token issuing
	RoleCodes       []string `json:"role_codes,omitempty" gorm:"-"`
	PermissionCodes []string `json:"permission_codes,omitempty" gorm:"-"`
}

func (User) TableName() string {
	return "users"
}

// Role groups permissions. Roles are seeded at startup and not
// administered through the API.
type Role struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Code        string    `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:64;not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsSystem    bool      `json:"is_system" gorm:"not null;default:false"`
	Status      string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission is a named capability checked by the route gate.
type Permission struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Code        string    `json:"code" gorm:"size:128;not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:64;not null"`
	Module      string    `json:"module" gorm:"size:32;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

// UserRole links users to roles.
type UserRole struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;size:32"`
	RoleID    string    `json:"role_id" gorm:"primaryKey;size:32"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// RolePermission links roles to permissions.
type RolePermission struct {
	RoleID       string    `json:"role_id" gorm:"primaryKey;size:32"`
	PermissionID string    `json:"permission_id" gorm:"primaryKey;size:32"`
	CreatedAt    time.Time `json:"created_at"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
