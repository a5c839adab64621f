package domain

import "github.com/google/uuid"

type User struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	TeamID *uuid.UUID `json:"team_id,omitempty"`
}
