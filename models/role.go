package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRole is returned by ParseRole for anything outside the Role set.
var ErrInvalidRole = errors.New("invalid role")

// Role is the closed set of actor roles stored on a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleSeller, RoleBuyer}

// ParseRole validates role input at the HTTP boundary.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Title is used in user-facing messages such as "Admin Access Only".
func (r Role) Title() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleSeller:
		return "Seller"
	case RoleBuyer:
		return "Buyer"
	}
	return "User"
}
