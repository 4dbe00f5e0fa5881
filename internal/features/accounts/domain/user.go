package domain

import "errors"

// Role identifies which dashboard a user belongs to.
type Role string

const (
	// RoleClient creates and submits shipments.
	RoleClient Role = "client"
	// RoleWarehouse receives and dispatches shipments.
	RoleWarehouse Role = "warehouse"
	// RoleAdmin configures pricing and monitors activity.
	RoleAdmin Role = "admin"
)

// AllRoles lists every role in a fixed order.
var AllRoles = []Role{RoleClient, RoleWarehouse, RoleAdmin}

var (
	// ErrInvalidRole is returned for a role outside the known set.
	ErrInvalidRole = errors.New("invalid role")
	// ErrUserNotFound is returned when a user id is not in the snapshot.
	ErrUserNotFound = errors.New("user not found")
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	for _, known := range AllRoles {
		if role == known {
			return role, nil
		}
	}
	return "", ErrInvalidRole
}

// User is an account known to the demo store. Users are toggled inactive by
// an admin action, never deleted.
type User struct {
	ID     string `json:"id"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
