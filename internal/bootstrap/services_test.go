package bootstrap

import (
	"database/sql"
	"testing"

	"github.com/nestlink/nestlink-api/config"
)

func TestBuildServices_RequiresConfigAndDB(t *testing.T) {
	if _, err := BuildServices(ServiceDeps{}); err == nil {
		t.Fatal("expected error for missing config")
	}

	if _, err := BuildServices(ServiceDeps{Config: &config.AppConfig{}}); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestBuildServices_ReaperOnlyWithoutRedis(t *testing.T) {
	cfg := &config.AppConfig{Services: "reaper"}
	cfg.Sanitize()

	container, err := BuildServices(ServiceDeps{
		Config: cfg,
		DB:     &sql.DB{},
		Logger: discardLogger(),
	})
	if err != nil {
		t.Fatalf("BuildServices() error: %v", err)
	}

	// A reaper-only deployment keeps no sessions, so auth and handoff stay
	// disabled; the reaper only needs the database.
	if container.Auth != nil {
		t.Fatalf("Auth = %v, want nil without redis", container.Auth)
	}
	if container.Handoff != nil {
		t.Fatalf("Handoff = %v, want nil without redis", container.Handoff)
	}
	if container.Reaper == nil {
		t.Fatal("Reaper should be built from the database alone")
	}
}

func TestBuildServices_HTTPWithoutRedisFails(t *testing.T) {
	cfg := &config.AppConfig{Services: "http,reaper"}
	cfg.Sanitize()

	_, err := BuildServices(ServiceDeps{
		Config: cfg,
		DB:     &sql.DB{},
		Logger: discardLogger(),
	})
	if err == nil {
		t.Fatal("expected startup error: the http service cannot run without session storage")
	}
}

func TestBuildServices_HTTPWithBrokenOAuthConfigFails(t *testing.T) {
	cfg := &config.AppConfig{Services: "http"}
	cfg.Auth.Mode = config.AuthModeOAuth
	cfg.Sanitize()

	_, err := BuildServices(ServiceDeps{
		Config:      cfg,
		DB:          &sql.DB{},
		RedisClient: unconnectedRedis(),
		Logger:      discardLogger(),
	})
	if err == nil {
		t.Fatal("expected startup error for oauth mode with no discovery URL")
	}
}

func TestValidateServiceConfig(t *testing.T) {
	if err := ValidateServiceConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	if err := ValidateServiceConfig(&config.AppConfig{Services: "bogus"}); err == nil {
		t.Fatal("expected error for unknown service name")
	}

	if err := ValidateServiceConfig(&config.AppConfig{Services: "http,reaper"}); err != nil {
		t.Fatalf("ValidateServiceConfig() error: %v", err)
	}
}

func TestGetEnabledServices(t *testing.T) {
	if got := GetEnabledServices(nil); len(got) != 0 {
		t.Fatalf("GetEnabledServices(nil) = %v, want empty", got)
	}

	got := GetEnabledServices(&config.AppConfig{Services: "http,reaper"})
	if len(got) != 2 {
		t.Fatalf("GetEnabledServices() = %v, want two entries", got)
	}

	if got := GetEnabledServices(&config.AppConfig{Services: "bogus"}); len(got) != 0 {
		t.Fatalf("GetEnabledServices() = %v, want empty on invalid config", got)
	}
}
