package my_errors

import (
	"errors"
	"fmt"
)

// Sentinel my_errors for business logic
var (
	// Auth my_errors
	ErrNotFound             = errors.New("not found")
	ErrMalformedToken       = errors.New("malformed token")
	ErrLinkInvalidOrExpired = errors.New("login link is invalid or expired")

	// Team my_errors
	ErrAlreadyOnTeam = errors.New("user is already on a team")
	ErrTeamFull      = errors.New("team is full")
	ErrTeamNotFound  = errors.New("team not found")

	// Infrastructure my_errors
	ErrUnavailable   = errors.New("database unavailable")
	ErrMailTransport = errors.New("failed to send mail")
)

// ConstraintViolation reports a CHECK or UNIQUE constraint failure raised by
// the database, identified structurally rather than by matching on message
// text. Table disambiguates constraints that share a name across tables
// (users.name_fmt vs teams.name_fmt).
type ConstraintViolation struct {
	Table      string
	Constraint string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint %q violated on table %q", e.Constraint, e.Table)
}

// AsConstraintViolation unwraps err looking for a ConstraintViolation.
func AsConstraintViolation(err error) (*ConstraintViolation, bool) {
	var cv *ConstraintViolation
	if errors.As(err, &cv) {
		return cv, true
	}
	return nil, false
}
