package model

import "time"

// User roles. Dispatchers operate the day-to-day endpoints; admins exist
// for future privileged operations and are accepted everywhere dispatchers are.
const (
	RoleDispatcher = "DISPATCHER"
	RoleAdmin      = "ADMIN"
)

// User is an authenticated principal. The password hash never leaves the
// server.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
