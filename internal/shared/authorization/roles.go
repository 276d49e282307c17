package authorization

import (
	"strings"

	"learnhub/internal/shared/constants"
)

// UserRole is the role carried in an access token.
type UserRole string

const (
	RoleAdmin UserRole = constants.RoleAdmin
	RoleUser  UserRole = constants.RoleUser
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseUserRole is case-insensitive. Unknown and empty roles are treated as
// RoleUser.
func ParseUserRole(s string) UserRole {
	switch role := UserRole(strings.ToLower(strings.TrimSpace(s))); role {
	case RoleAdmin, RoleUser:
		return role
	default:
		return RoleUser
	}
}
