package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"nestlink"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"nestlink"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"landlords"      envSeparator:";"`
}

// RoleGroupsConfig maps identity-provider group names to application roles.
// Groups left empty never match; identities matching no group become guests.
type RoleGroupsConfig struct {
	SuperAdmin      string `env:"SUPER_ADMIN_GROUP"      envDefault:"nestlink-admins"`
	Landlord        string `env:"LANDLORD_GROUP"         envDefault:"landlords"`
	Tenant          string `env:"TENANT_GROUP"           envDefault:"tenants"`
	Agent           string `env:"AGENT_GROUP"            envDefault:"agents"`
	Buyer           string `env:"BUYER_GROUP"            envDefault:"buyers"`
	ServiceProvider string `env:"SERVICE_PROVIDER_GROUP" envDefault:"service-providers"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// RoleGroups maps IdP groups to application roles.
	RoleGroups RoleGroupsConfig `envPrefix:"AUTH_"`

	// RoleExpression is an optional JMESPath expression evaluated against
	// {"groups": [...]} that yields a role name directly, for providers that
	// carry the application role in a structured claim. When it yields
	// nothing usable, group mapping applies.
	RoleExpression string `env:"AUTH_ROLE_EXPRESSION"`
}
