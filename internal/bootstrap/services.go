package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/nestlink/nestlink-api/config"
	redisadapter "github.com/nestlink/nestlink-api/internal/adapters/redis"
	"github.com/nestlink/nestlink-api/internal/data"
	"github.com/nestlink/nestlink-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Handoff *service.HandoffService
	Reaper  *service.ReaperService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices constructs all application services from their dependencies.
func BuildServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database connection is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := deps.Config.GetEnabledServices()
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("determine enabled services: %w", err)
	}

	tokenRepo := data.NewTransferTokenRepo(deps.DB)

	// Auth and handoff both keep sessions in redis. Without redis the http
	// service cannot gate requests or mint sessions, so it refuses to start;
	// a reaper-only deployment needs neither.
	var authSvc *service.AuthService
	var handoffSvc *service.HandoffService
	switch {
	case deps.RedisClient != nil:
		authSvc, err = BuildAuthService(AuthConfig{
			Auth:        deps.Config.Auth,
			RedisClient: deps.RedisClient,
			Logger:      logger,
		})
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
		}

		sessionStore := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:")
		handoffSvc, err = service.NewHandoffService(service.HandoffServiceOptions{
			Tokens:   tokenRepo,
			Sessions: sessionStore,
			Config:   deps.Config.Handoff,
			Logger:   logger,
		})
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("build handoff service: %w", err)
		}

	case enabled[config.ServiceModeHTTP]:
		return ServiceContainer{}, errors.New("http service requires a redis client for session storage")

	default:
		logger.Warn("auth and handoff services disabled: redis client not configured")
	}

	reaperSvc, err := service.NewReaperService(service.ReaperServiceOptions{
		Repo:   tokenRepo,
		Config: deps.Config.Reaper,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build reaper service: %w", err)
	}

	return ServiceContainer{
		Auth:    authSvc,
		Handoff: handoffSvc,
		Reaper:  reaperSvc,
	}, nil
}

// ServiceOrchestrationConfig groups everything needed to run the enabled services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// SIGINT/SIGTERM cancels the service context; every service treats that
	// as a graceful stop.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		server := StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(ShutdownConfig{
				Context: context.Background(),
				Server:  server,
				Logger:  logger,
			})
		})
	}

	if enabled[config.ServiceModeReaper] {
		g.Go(func() error {
			return cfg.Services.Reaper.Run(gctx)
		})
	}

	logger.Info("services started", "enabled", GetEnabledServices(cfg.Config))

	if waitErr := g.Wait(); waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return waitErr
	}
	return nil
}
