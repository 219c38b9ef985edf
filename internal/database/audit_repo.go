package database

import (
	"encoding/json"
	"time"

	"copysmith-backend/internal/models"
)

// AuditRepo handles audit log database operations
type AuditRepo struct{}

// NewAuditRepo creates a new audit repository
func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

// Create creates a new audit log entry
func (r *AuditRepo) Create(entry *models.AuditLog) error {
	result, err := DB.Exec(`
		INSERT INTO audit_logs (timestamp, user_id, email, action, target, details, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.Timestamp, entry.UserID, entry.Email, entry.Action, entry.Target, entry.Details, entry.IPAddress)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// Log is a convenience method to create an audit log entry with current timestamp
func (r *AuditRepo) Log(userID int64, email, action, target string, details interface{}, ipAddress string) error {
	var detailsJSON string
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			detailsJSON = "{}"
		} else {
			detailsJSON = string(b)
		}
	}

	return r.Create(&models.AuditLog{
		Timestamp: time.Now(),
		UserID:    userID,
		Email:     email,
		Action:    action,
		Target:    target,
		Details:   detailsJSON,
		IPAddress: ipAddress,
	})
}

// ListRecent returns the most recent audit log entries
func (r *AuditRepo) ListRecent(limit int) ([]*models.AuditLog, error) {
	rows, err := DB.Query(`
		SELECT id, timestamp, user_id, email, action, target, details, ip_address
		FROM audit_logs ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		err := rows.Scan(
			&entry.ID, &entry.Timestamp, &entry.UserID, &entry.Email,
			&entry.Action, &entry.Target, &entry.Details, &entry.IPAddress,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
