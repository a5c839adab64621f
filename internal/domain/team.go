package domain

import "github.com/google/uuid"

// TeamCapacity is the maximum number of users that may point at one team.
const TeamCapacity = 4

// Team membership is derived from users.teamid; the team row itself only
// carries its name.
type Team struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
