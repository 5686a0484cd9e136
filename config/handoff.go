package config

import "time"

// HandoffConfig contains session handoff (transfer token) configuration.
type HandoffConfig struct {
	// TokenTTL is how long an issued transfer token stays exchangeable.
	// Minutes, not hours: the token only needs to survive the app switch.
	TokenTTL time.Duration `env:"HANDOFF_TOKEN_TTL" envDefault:"5m"`

	// SessionTTL is the lifetime of the mobile session minted on exchange.
	SessionTTL time.Duration `env:"HANDOFF_SESSION_TTL" envDefault:"168h"` // 7 days

	// DeepLinkScheme is the custom URL scheme registered by the mobile app.
	DeepLinkScheme string `env:"HANDOFF_DEEP_LINK_SCHEME" envDefault:"nestlink"`

	// DeepLinkHost is the host component of the deep link.
	DeepLinkHost string `env:"HANDOFF_DEEP_LINK_HOST" envDefault:"auth"`
}

// Sanitize applies guardrails to handoff configuration values.
func (h *HandoffConfig) Sanitize() {
	// Keep the token window short but survivable across a slow app launch
	if h.TokenTTL < 1*time.Minute {
		h.TokenTTL = 1 * time.Minute
	}
	if h.TokenTTL > 30*time.Minute {
		h.TokenTTL = 30 * time.Minute
	}

	if h.SessionTTL < 1*time.Hour {
		h.SessionTTL = 1 * time.Hour
	}

	if h.DeepLinkScheme == "" {
		h.DeepLinkScheme = "nestlink"
	}
	if h.DeepLinkHost == "" {
		h.DeepLinkHost = "auth"
	}
}
