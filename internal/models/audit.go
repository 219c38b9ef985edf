package models

import "time"

// AuditLog represents a recorded account or content action
type AuditLog struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Details   string    `json:"details"` // JSON string
	IPAddress string    `json:"ip_address"`
}

// Common audit actions
const (
	ActionSignUp            = "signup"
	ActionLogin             = "login"
	ActionLogout            = "logout"
	ActionGenerate          = "generate"
	ActionDeleteDescription = "delete_description"
	ActionRevokeSession     = "revoke_session"
)
