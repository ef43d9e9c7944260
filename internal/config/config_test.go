package config

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("WIZARD_SESSION_TTL", "45m")
	t.Setenv("PHONE_TOKEN_TTL", "not-a-duration")
	t.Setenv("LOG_REQUESTS", "off")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env, got %q", cfg.AppEnv)
	}
	if cfg.WizardSessionTTL != 45*time.Minute {
		t.Fatalf("expected 45m session ttl, got %s", cfg.WizardSessionTTL)
	}
	if cfg.PhoneTokenTTL != 2*time.Hour {
		t.Fatalf("expected fallback token ttl, got %s", cfg.PhoneTokenTTL)
	}
	if cfg.LogRequests {
		t.Fatalf("expected request logging disabled")
	}
}

func TestStorageConfigured(t *testing.T) {
	cfg := &Config{SupabaseURL: "https://x.supabase.co", SupabaseBucket: "docs"}
	if cfg.StorageConfigured() {
		t.Fatalf("expected storage to need a service key")
	}
	cfg.SupabaseServiceKey = "key"
	if !cfg.StorageConfigured() {
		t.Fatalf("expected storage configured")
	}
}

func TestDocsEnabledOnlyInDevelopment(t *testing.T) {
	if (&Config{AppEnv: "production", EnableDocs: true}).DocsEnabled() {
		t.Fatalf("docs must stay off outside development")
	}
	if !(&Config{AppEnv: "development", EnableDocs: true}).DocsEnabled() {
		t.Fatalf("expected docs enabled in development")
	}
}
