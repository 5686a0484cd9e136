package config

import (
	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.nestlink.io").
	// Used for generating absolute URLs in external contexts.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	// A cookie domain equal to a public suffix (e.g. "com", "co.uk") would be
	// rejected by browsers and on some engines would scope the session cookie
	// far wider than intended. Clear it rather than ship a broken session.
	if h.CookieDomain != "" {
		if suffix, _ := publicsuffix.PublicSuffix(h.CookieDomain); suffix == h.CookieDomain {
			h.CookieDomain = ""
		}
	}
}
