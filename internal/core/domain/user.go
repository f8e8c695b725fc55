package domain

import (
	"fmt"
	"strings"
)

// Role is the capability carried by an account and its tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole decodes a role claim. An empty string means RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", Invalid("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Principal is the authenticated caller, decoded once from a verified token.
type Principal struct {
	AccountID string
	Role      Role
}

// Is reports whether the principal holds one of the given roles.
func (p Principal) Is(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func (p Principal) String() string {
	return fmt.Sprintf("%s(%s)", p.AccountID, p.Role)
}
