package session

import "time"

// Session is one viewer's board state.
type Session struct {
	ID         string
	State      State
	CreatedAt  time.Time
	LastSeenAt time.Time
}
