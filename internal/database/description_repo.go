package database

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"copysmith-backend/internal/models"
)

var ErrDescriptionNotFound = errors.New("description not found")

// DescriptionRepo handles generated description database operations
type DescriptionRepo struct{}

// NewDescriptionRepo creates a new description repository
func NewDescriptionRepo() *DescriptionRepo {
	return &DescriptionRepo{}
}

// Insert stores a new generated description and assigns its identifier
// and creation timestamp.
func (r *DescriptionRepo) Insert(d *models.Description) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	_, err := DB.Exec(`
		INSERT INTO descriptions (id, user_id, product_name, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, d.ID, d.UserID, d.ProductName, d.Description, d.CreatedAt)
	return err
}

// ListByUser returns all descriptions owned by userID, most recent first.
// Rows inserted within the same timestamp keep insertion order via rowid.
func (r *DescriptionRepo) ListByUser(userID int64) ([]*models.Description, error) {
	rows, err := DB.Query(`
		SELECT id, user_id, product_name, description, created_at
		FROM descriptions WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var descriptions []*models.Description
	for rows.Next() {
		d := &models.Description{}
		err := rows.Scan(&d.ID, &d.UserID, &d.ProductName, &d.Description, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		descriptions = append(descriptions, d)
	}

	return descriptions, rows.Err()
}

// Delete removes a description. The owning user id is part of the filter
// so one user can never delete another user's rows.
func (r *DescriptionRepo) Delete(id string, userID int64) error {
	result, err := DB.Exec("DELETE FROM descriptions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDescriptionNotFound
	}

	return nil
}

// CountByUser returns the number of descriptions owned by userID
func (r *DescriptionRepo) CountByUser(userID int64) (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM descriptions WHERE user_id = ?", userID).Scan(&count)
	return count, err
}
