package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/nestlink/nestlink-api/config"
	"github.com/nestlink/nestlink-api/internal/adapters/authroles"
	"github.com/nestlink/nestlink-api/internal/adapters/devauth"
	"github.com/nestlink/nestlink-api/internal/adapters/oidc"
	redisadapter "github.com/nestlink/nestlink-api/internal/adapters/redis"
	"github.com/nestlink/nestlink-api/internal/ports"
	"github.com/nestlink/nestlink-api/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Configuration problems are returned as errors so startup fails instead of
// running with auth silently disabled.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client for session storage")
	}

	// Redis session store shared by both modes
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	roleMapper, err := buildRoleMapper(cfg)
	if err != nil {
		return nil, err
	}

	var svc *service.AuthService
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		svc, err = buildDevAuthService(cfg, sessionStore, roleMapper)
	case config.AuthModeOAuth:
		svc, err = buildOAuthService(cfg, sessionStore, roleMapper)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("auth service configured", "mode", cfg.Auth.Mode)
	}
	return svc, nil
}

// buildRoleMapper selects the role mapping strategy. A configured JMESPath
// expression takes precedence, with group mapping as its fallback; otherwise
// group mapping is used directly.
//
//nolint:ireturn // the two mapper implementations are selected by configuration.
func buildRoleMapper(cfg AuthConfig) (ports.RoleMapper, error) {
	groups := cfg.Auth.RoleGroups
	static := authroles.StaticRoleMapper{
		SuperAdminGroup:      groups.SuperAdmin,
		LandlordGroup:        groups.Landlord,
		TenantGroup:          groups.Tenant,
		AgentGroup:           groups.Agent,
		BuyerGroup:           groups.Buyer,
		ServiceProviderGroup: groups.ServiceProvider,
	}

	if cfg.Auth.RoleExpression == "" {
		return static, nil
	}

	mapper, err := authroles.NewExpressionRoleMapper(cfg.Auth.RoleExpression, static.Map)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_ROLE_EXPRESSION: %w", err)
	}
	return mapper, nil
}

func buildDevAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleMapper ports.RoleMapper,
) (*service.AuthService, error) {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: cfg.Auth.DevAuth.UserID,
		Email:  cfg.Auth.DevAuth.Email,
		Groups: cfg.Auth.DevAuth.Groups,
		// session duration defaults inside provider
	})
	if err != nil {
		return nil, fmt.Errorf("configure dev auth provider: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Roles:    roleMapper,
	}), nil
}

func buildOAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleMapper ports.RoleMapper,
) (*service.AuthService, error) {
	oauth := cfg.Auth.OAuth

	var missing []string
	if oauth.DiscoveryURL == "" {
		missing = append(missing, "OAUTH_DISCOVERY_URL")
	}
	if oauth.ClientID == "" {
		missing = append(missing, "OAUTH_CLIENT_ID")
	}
	if oauth.ClientSecret == "" {
		missing = append(missing, "OAUTH_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("oauth auth mode requires %s", strings.Join(missing, ", "))
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
	})
	if err != nil {
		return nil, fmt.Errorf("configure oidc provider: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Roles:    roleMapper,
	}), nil
}
