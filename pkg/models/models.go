// Package models defines the entities exchanged with the notes API and
// the validated input forms the client submits.
package models

import "time"

// Plan is a tenant's subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Role is a user's role within their tenant.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Tenant is the workspace a user belongs to. Every note lives inside
// exactly one tenant.
type Tenant struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Plan Plan   `json:"plan"`
}

// User is an authenticated account.
type User struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      Role    `json:"role"`
	Tenant    *Tenant `json:"tenant,omitempty"`
}

// Name returns the user's display name.
func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user may manage their tenant.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Note is a single note within a tenant.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination describes the slice of a collection a list call returned.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
