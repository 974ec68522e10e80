package config

import "testing"

func TestStripeEnvironmentDefaultsToMock(t *testing.T) {
	cfg := StripeConfig{}
	if cfg.Environment() != StripeEnvMock {
		t.Fatalf("expected mock default, got %s", cfg.Environment())
	}
	if !cfg.IsMock() {
		t.Fatal("empty stripe config must report mock mode")
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("mock config should validate: %v", err)
	}
}

func TestStripeLiveRequiresCredentials(t *testing.T) {
	cfg := StripeConfig{Env: "live"}
	if err := cfg.validate(); err == nil {
		t.Fatal("live mode without api key must fail")
	}

	cfg.APIKey = "sk_live_abc"
	if err := cfg.validate(); err == nil {
		t.Fatal("live mode without webhook secret must fail")
	}

	cfg.WebhookSecret = "whsec_abc"
	if err := cfg.validate(); err != nil {
		t.Fatalf("fully configured live mode should validate: %v", err)
	}
	if cfg.IsMock() {
		t.Fatal("live config must not report mock mode")
	}
}

func TestStripeUnknownEnvRejected(t *testing.T) {
	cfg := StripeConfig{Env: "sandbox"}
	if err := cfg.validate(); err == nil {
		t.Fatal("unknown stripe env must be rejected")
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "Development"}).IsDev() {
		t.Fatal("IsDev should be case insensitive")
	}
	if !(AppConfig{Env: "production"}).IsProd() {
		t.Fatal("IsProd should match production")
	}
}
