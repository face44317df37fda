package config

import (
	"strings"
	"testing"
	"time"
)

// minimalEnv sets the variables Load cannot default.
func minimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ZOHO_ORGANIZATION_ID", "org-1")
	t.Setenv("ZOHO_ACCESS_TOKEN", "tok")
}

func TestLoad_Defaults(t *testing.T) {
	minimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("server defaults wrong: %+v", cfg)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("base path default wrong: %q", cfg.APIBasePath)
	}
	if cfg.Remote.APIBaseURL != "https://inventory.zoho.com/api/v1" {
		t.Fatalf("remote base url default wrong: %q", cfg.Remote.APIBaseURL)
	}
	if cfg.Remote.RequestTimeout != 20*time.Second || cfg.Remote.RetryPolicy != "standard" {
		t.Fatalf("remote tuning defaults wrong: %+v", cfg.Remote)
	}
	if cfg.RateRPS != 10 || cfg.RateBurst != 20 {
		t.Fatalf("rate defaults wrong: rps=%v burst=%d", cfg.RateRPS, cfg.RateBurst)
	}
}

func TestLoad_RequiresOrganization(t *testing.T) {
	t.Setenv("ZOHO_ORGANIZATION_ID", "")
	t.Setenv("ZOHO_ACCESS_TOKEN", "tok")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ZOHO_ORGANIZATION_ID") {
		t.Fatalf("expected organization error, got %v", err)
	}
}

func TestLoad_RequiresCredentials(t *testing.T) {
	t.Setenv("ZOHO_ORGANIZATION_ID", "org-1")
	t.Setenv("ZOHO_ACCESS_TOKEN", "")
	t.Setenv("ZOHO_CLIENT_ID", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ZOHO_CLIENT_ID") {
		t.Fatalf("expected credential error, got %v", err)
	}
}

func TestLoad_OAuthTripletAccepted(t *testing.T) {
	t.Setenv("ZOHO_ORGANIZATION_ID", "org-1")
	t.Setenv("ZOHO_CLIENT_ID", "c")
	t.Setenv("ZOHO_CLIENT_SECRET", "s")
	t.Setenv("ZOHO_REFRESH_TOKEN", "r")

	if _, err := Load(); err != nil {
		t.Fatalf("oauth triplet should satisfy validation: %v", err)
	}
}

func TestLoad_RejectsUnknownRetryPolicy(t *testing.T) {
	minimalEnv(t)
	t.Setenv("ZOHO_RETRY_POLICY", "forever")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ZOHO_RETRY_POLICY") {
		t.Fatalf("expected retry policy error, got %v", err)
	}
}

func TestLoad_NormalizesWarningLevel(t *testing.T) {
	minimalEnv(t)
	t.Setenv("LOG_LEVEL", "warning")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected warn, got %q", cfg.LogLevel)
	}
}

func TestLoad_SplitsCORSOrigins(t *testing.T) {
	minimalEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := cfg.CORS.AllowedOrigins
	if len(got) != 2 || got[0] != "https://a.test" || got[1] != "https://b.test" {
		t.Fatalf("origins wrong: %v", got)
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"api":     "/api",
		"/api/":   "/api",
		"/":       "/",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
