package models

import (
	"time"

	"github.com/lib/pq"
)

// UserRole represents the administrative tiers of the portal.
type UserRole string

const (
	RoleCentralAdmin  UserRole = "central_admin"
	RoleStateAdmin    UserRole = "state_admin"
	RoleDistrictAdmin UserRole = "district_admin"
	RoleVillageAdmin  UserRole = "village_admin"
	RoleCitizen       UserRole = "citizen"
)

// Valid reports whether the role is one of the declared tiers.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCentralAdmin, RoleStateAdmin, RoleDistrictAdmin, RoleVillageAdmin, RoleCitizen:
		return true
	}
	return false
}

// User represents a portal account stored in the users table.
type User struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	Phone        string         `db:"phone" json:"phone"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         UserRole       `db:"role" json:"role"`
	Level        string         `db:"level" json:"level"`
	Permissions  pq.StringArray `db:"permissions" json:"permissions"`
	Active       bool           `db:"active" json:"active"`
	LastLogin    *time.Time     `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
