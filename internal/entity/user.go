package entity

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold. Catalog writes require RoleAdmin.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User is a registered account. The password is stored as a bcrypt hash
// and never serialized.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User with a generated id.
func NewUser(name, email, passwordHash, role string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
