package identity

import "time"

// Session is the identity carried by a session token between login and logout.
type Session struct {
	SubjectID int64
	Username  string
	Role      Role
	IssuedAt  time.Time
}

// NewSession starts a session for u at the given time
func NewSession(u *User, issuedAt time.Time) Session {
	return Session{
		SubjectID: u.ID,
		Username:  u.Username,
		Role:      u.Role,
		IssuedAt:  issuedAt,
	}
}

// IsAdmin reports whether the session carries the admin role
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
