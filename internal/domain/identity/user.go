package identity

import (
	"strings"

	"github.com/nantech/inventory/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// User represents an account that can sign in.
// Passwords are stored as bcrypt hashes, never as plain values.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Name         string
	DivisionID   *int64
	Role         Role
}

// NewUser creates a user with a hashed password
func NewUser(username, password, name string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewValidationError("Username is required")
	}
	if strings.Contains(username, ":") {
		return nil, shared.NewValidationError("Username cannot contain ':'")
	}
	if password == "" {
		return nil, shared.NewValidationError("Password is required")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Role must be one of admin, validator, user")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HashPassword hashes a plain password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
