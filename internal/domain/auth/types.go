package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleLandlord        Role = "landlord"
	RoleTenant          Role = "tenant"
	RoleAgent           Role = "agent"
	RoleBuyer           Role = "buyer"
	RoleServiceProvider Role = "service_provider"
	RoleGuest           Role = "guest"
)

// Roles lists every role the application assigns to authenticated users.
// RoleGuest is excluded: it marks an unmapped identity, not an assignment.
var Roles = []Role{
	RoleSuperAdmin,
	RoleLandlord,
	RoleTenant,
	RoleAgent,
	RoleBuyer,
	RoleServiceProvider,
}

// Valid reports whether r is one of the declared application roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// Principal returns the identity-plus-role view the request gate operates on.
func (s Session) Principal() Principal {
	return Principal{UserID: s.UserID, Role: s.Role}
}

// Principal is the authenticated identity and role associated with a request.
// Handlers receive it explicitly rather than re-reading ambient state.
type Principal struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
