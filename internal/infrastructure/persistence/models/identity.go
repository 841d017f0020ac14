package models

import "github.com/nantech/inventory/internal/domain/identity"

// UserModel is the persistence model for identity.User.
// The password column stores a bcrypt hash.
type UserModel struct {
	IDModel
	Username   string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Password   string `gorm:"type:varchar(255);not null"`
	Name       string `gorm:"type:varchar(255);not null"`
	DivisionID *int64
	Role       string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.Password,
		Name:         m.Name,
		DivisionID:   m.DivisionID,
		Role:         identity.Role(m.Role),
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.ID = u.ID
	m.Username = u.Username
	m.Password = u.PasswordHash
	m.Name = u.Name
	m.DivisionID = u.DivisionID
	m.Role = string(u.Role)
}
