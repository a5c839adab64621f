package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is a bearer credential. The id is the secret itself. A nil
// Expires means the token never expires; rows are never mutated after
// creation.
type AuthToken struct {
	ID      uuid.UUID  `json:"id"`
	UserID  int64      `json:"user_id"`
	Expires *time.Time `json:"expires,omitempty"`
}
