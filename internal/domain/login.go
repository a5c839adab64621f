package domain

import (
	"time"

	"github.com/google/uuid"
)

// Login is a one-time login link mailed to a user. The id doubles as the
// bearer secret. A login is redeemable iff it is unused and unexpired, and
// the used flag flips at most once.
type Login struct {
	ID      uuid.UUID `json:"id"`
	UserID  int64     `json:"user_id"`
	Expires time.Time `json:"expires"`
	Used    bool      `json:"used"`
}

func (l *Login) Redeemable(now time.Time) bool {
	return !l.Used && now.Before(l.Expires)
}
