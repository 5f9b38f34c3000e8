// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// UserRole represents the authorization level granted to an account.
// The set is closed: every value outside it is rejected by [ParseRole].
type UserRole string

const (
	// Unrestricted system access, including role assignment
	RoleAdmin UserRole = "admin"

	// Can edit and delete any review or comment
	RoleModerator UserRole = "moderator"

	// Default role for accounts created through the confirmation-code flow
	RoleUser UserRole = "user"
)

// Roles lists every valid role in ascending order of privilege.
var Roles = []UserRole{RoleUser, RoleModerator, RoleAdmin}

// ParseRole converts a raw string into a [UserRole].
func ParseRole(raw string) (UserRole, error) {
	role := UserRole(raw)
	if !role.Valid() {
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether r belongs to the closed role set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	default:
		return false
	}
}

// # Capability Predicates

// IsAdmin reports whether the role grants administrative rights.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// IsModerator reports whether the role is exactly moderator.
func (r UserRole) IsModerator() bool {
	return r == RoleModerator
}

// IsStaff reports whether the role may moderate content written by others.
func (r UserRole) IsStaff() bool {
	return r.IsAdmin() || r.IsModerator()
}

// String implements [fmt.Stringer].
func (r UserRole) String() string {
	return string(r)
}
