package auth

import "time"

// Session is the authentication context of one request. The zero value is the
// anonymous session.
type Session struct {
	UserID    uint
	Name      string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Authenticated reports whether the session belongs to a signed-in writer.
func (s Session) Authenticated() bool {
	return s.UserID != 0
}
