package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleControl = "control"
)

// AdminAccount is an operator login. Passwords are stored as bcrypt hashes.
type AdminAccount struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"password_hash"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}
