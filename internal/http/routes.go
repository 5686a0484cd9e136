// Package httpx provides HTTP handlers and middleware for the nestlink session API.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/nestlink/nestlink-api/internal/domain/routes"
	"github.com/nestlink/nestlink-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Handoff      *service.HandoffService
	Routes       *routes.Classification
	CookieDomain string
	Logger       *slog.Logger // Logger for handler errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	classification := services.Routes
	if classification == nil {
		classification = routes.NewDefaultClassification()
	}

	var authHandlers *AuthHandlers
	if services.Auth != nil {
		authHandlers = &AuthHandlers{
			Svc:          services.Auth,
			Routes:       classification,
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		}
	}

	if services.Handoff != nil {
		handoffHandlers := &HandoffHandlers{Svc: services.Handoff, Logger: services.Logger}
		registerHandoffRoutes(mux, handoffHandlers, services.Auth)
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if authHandlers != nil {
		registerAuthRoutes(mux, authHandlers)
	}

	return mux
}

func registerHandoffRoutes(mux *http.ServeMux, h *HandoffHandlers, auth *service.AuthService) {
	issue := http.Handler(http.HandlerFunc(h.Issue))
	if auth != nil {
		issue = RequireAuth(auth)(issue)
	}
	mux.Handle("POST /api/handoff/tokens", issue)

	// Exchange is deliberately unauthenticated: the token value is the
	// credential being presented.
	mux.HandleFunc("POST /api/handoff/exchange", h.Exchange)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)

	// Status answers 200 for everyone; OptionalAuth only fills the context.
	mux.Handle("GET /auth/status", OptionalAuth(h.Svc)(http.HandlerFunc(h.Status)))
}
