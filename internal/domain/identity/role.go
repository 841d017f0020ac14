package identity

// Role is the single authorization input. The set is closed.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleValidator Role = "validator"
	RoleUser      Role = "user"
)

// AllRoles lists every valid role
var AllRoles = []Role{RoleAdmin, RoleValidator, RoleUser}

// ParseRole converts a raw value into a Role.
// The second return value is false for anything outside the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleValidator, RoleUser:
		return Role(s), true
	default:
		return "", false
	}
}

// IsValid reports whether r belongs to the closed role set
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}
