package entity

import (
	"time"
)

// DefaultRole is assigned to every account created through signup confirmation.
const DefaultRole = "user"

// PendingUser is a signup held in the staging store until it is confirmed or
// purged. It never carries an active flag: activation happens only on
// promotion to an Account.
type PendingUser struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Firstname      string    `json:"firstname"`
	Lastname       string    `json:"lastname"`
	HashedPassword string    `json:"hashed_password"`
	CreatedAt      time.Time `json:"created_at"`
}

// Account is the durable record produced by promoting a PendingUser. It is the
// only source of truth for login.
type Account struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	HashedPassword string `json:"-"`
	IsActive       bool   `json:"is_active"`
	Role           string `json:"role"`
}

// Promote turns a staged signup into an active account with the given role.
func (p *PendingUser) Promote(role string) *Account {
	return &Account{
		ID:             p.ID,
		Username:       p.Username,
		Email:          p.Email,
		Phone:          p.Phone,
		Firstname:      p.Firstname,
		Lastname:       p.Lastname,
		HashedPassword: p.HashedPassword,
		IsActive:       true,
		Role:           role,
	}
}
