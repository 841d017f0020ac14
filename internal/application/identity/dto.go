package identity

import (
	"time"

	"github.com/nantech/inventory/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login logging
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

// UserInfo is the user profile returned to clients. It never includes the password.
type UserInfo struct {
	ID         int64
	Username   string
	Name       string
	DivisionID *int64
	Role       identity.Role
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	Token  string
	UserID int64
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		DivisionID: u.DivisionID,
		Role:       u.Role,
	}
}
