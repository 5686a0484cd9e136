package routes

// Package routes holds the static route classification the request gate
// consults on every request. The table is immutable after construction and
// carries no per-request state.

import (
	"strings"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
)

// DefaultLandingPath is where authenticated users without a recognized role
// land. The landing table must stay total over the role enum; this is the
// fallback, never an error.
const DefaultLandingPath = "/dashboard"

// DefaultLoginPath is the public login page.
const DefaultLoginPath = "/login"

// Classification maps path prefixes to authentication requirements and roles
// to their landing pages.
type Classification struct {
	loginPath         string
	protectedPrefixes []string
	landing           map[domainauth.Role]string
}

// NewDefaultClassification returns the application's route table: every
// role-scoped area requires authentication, and each role has a landing page.
func NewDefaultClassification() *Classification {
	return &Classification{
		loginPath: DefaultLoginPath,
		protectedPrefixes: []string{
			"/admin",
			"/landlord",
			"/tenant",
			"/agent",
			"/buyer",
			"/provider",
			"/dashboard",
			"/onboarding",
			"/properties",
		},
		landing: map[domainauth.Role]string{
			domainauth.RoleSuperAdmin:      "/admin/dashboard",
			domainauth.RoleLandlord:        "/landlord/dashboard",
			domainauth.RoleTenant:          "/tenant/dashboard",
			domainauth.RoleAgent:           "/agent/dashboard",
			domainauth.RoleBuyer:           "/buyer/dashboard",
			domainauth.RoleServiceProvider: "/provider/dashboard",
		},
	}
}

// LoginPath returns the public login page path.
func (c *Classification) LoginPath() string { return c.loginPath }

// IsProtected reports whether the path falls under a prefix that requires an
// authenticated principal. Prefixes match on path-segment boundaries, so
// "/tenant" protects "/tenant" and "/tenant/dashboard" but not "/tenants".
func (c *Classification) IsProtected(path string) bool {
	for _, prefix := range c.protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// IsLoginPath reports whether the path is the login page itself.
func (c *Classification) IsLoginPath(path string) bool {
	return path == c.loginPath
}

// LandingFor returns the post-login destination for a role. Unrecognized or
// missing roles fall back to the default landing page.
func (c *Classification) LandingFor(role domainauth.Role) string {
	if dest, ok := c.landing[role]; ok {
		return dest
	}
	return DefaultLandingPath
}
