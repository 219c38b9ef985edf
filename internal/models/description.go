package models

import "time"

// Tone of voice options for generated copy
const (
	ToneProfessional = "Professional"
	ToneWitty        = "Witty & Fun"
	ToneUrgent       = "Urgent / Salesy"
	ToneMinimalist   = "Minimalist"
)

// Tones lists the supported tone values in display order.
var Tones = []string{ToneProfessional, ToneWitty, ToneUrgent, ToneMinimalist}

// ValidTone reports whether tone is one of the supported values.
func ValidTone(tone string) bool {
	for _, t := range Tones {
		if t == tone {
			return true
		}
	}
	return false
}

// ProductInput is the generation form state. It is consumed on submission
// and never persisted; only the generated result is.
type ProductInput struct {
	Name           string `json:"name"`
	Features       string `json:"features"`
	TargetAudience string `json:"target_audience"`
	Tone           string `json:"tone"`
}

// Description is a persisted generation result owned by exactly one user.
// Rows are created by a successful generation, read in bulk newest-first
// and deleted individually; they are never updated in place.
type Description struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	ProductName string    `json:"product_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
