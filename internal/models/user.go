package models

import "time"

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// Principal is the authenticated identity as observed by the workflow
// layer: exactly the user id and email, nothing else. Absence of a
// Principal means unauthenticated.
type Principal struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// Principal returns the workflow-facing view of the user.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Email: u.Email}
}
