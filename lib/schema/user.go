// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// Role is a user's privilege level. The set is closed and totally
// ordered: admin >= operator >= user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleUser     Role = "user"
)

// rank orders roles by privilege. Unknown roles rank below user.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleOperator:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// Known reports whether r is one of the three roles.
func (r Role) Known() bool { return r.rank() > 0 }

// AtLeast reports whether r carries at least the privilege of
// minimum. An unknown role is never at least anything.
func (r Role) AtLeast(minimum Role) bool {
	return r.Known() && r.rank() >= minimum.rank()
}

// User is the authenticated account as returned at login.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// DisplayName returns the name, falling back to the email address.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
