package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the stored form of a wizard session: which profile it runs,
// which step it is on, and the draft collected so far.
// Autocomplete state is ephemeral and never stored.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Profile   string    `json:"profile"`
	Step      int       `json:"step"`
	Draft     TripDraft `json:"draft"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
