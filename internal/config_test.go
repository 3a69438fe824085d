package internal

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	loc, err := cfg.Dashboard.Location()
	if err != nil || loc.String() != "Europe/Madrid" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"auth token missing", func(c *Config) { c.Auth.Mode = AuthModeToken }, "token is empty"},
		{"bad port", func(c *Config) { c.App.HTTP.Port = 70000 }, "port"},
		{"unknown zone", func(c *Config) { c.Dashboard.Timezone = "Mars/Olympus" }, "timezone"},
		{"refresh too fast", func(c *Config) { c.Dashboard.RefreshInterval = time.Millisecond }, "refreshinterval"},
		{"zero upcoming days", func(c *Config) { c.Dashboard.UpcomingDays = 0 }, "upcomingdays"},
		{"import without dir", func(c *Config) { c.Import = ImportConfig{Enabled: true} }, "dir"},
		{"negative import settle", func(c *Config) { c.Import.Settle = -time.Second }, "settle"},
		{"amqp without exchange", func(c *Config) { c.AMQP = AMQPConfig{URL: "amqp://localhost"} }, "exchange"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestImportDisabledNeedsNoDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Import = ImportConfig{}
	cfg.AMQP = AMQPConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled optional sections should pass: %v", err)
	}
}
