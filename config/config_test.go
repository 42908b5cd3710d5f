package config

import (
	"testing"
	"time"
)

func TestPollIntervalDefaultsWhenUnset(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{name: "zero falls back", seconds: 0, want: 3 * time.Second},
		{name: "negative falls back", seconds: -5, want: 3 * time.Second},
		{name: "configured value", seconds: 10, want: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{PollIntervalSeconds: tt.seconds}
			if got := cfg.PollInterval(); got != tt.want {
				t.Errorf("PollInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("CALYPSO_SITE_URL", "https://env.example.com")
	t.Setenv("CALYPSO_SITE_ID", "99")
	t.Setenv("CALYPSO_DATA_DIR", "/tmp/calypso-test")
	t.Setenv("CALYPSO_SITE_TOKEN", "env-token")

	cfg := &Config{
		SiteURL:       "https://file.example.com",
		SiteID:        "42",
		DataDirectory: "~/.local/share/calypso",
	}
	cfg.applyEnvOverrides()

	if cfg.SiteURL != "https://env.example.com" {
		t.Errorf("SiteURL = %q, want env value", cfg.SiteURL)
	}
	if cfg.SiteID != "99" {
		t.Errorf("SiteID = %q, want env value", cfg.SiteID)
	}
	if cfg.DataDirectory != "/tmp/calypso-test" {
		t.Errorf("DataDirectory = %q, want env value", cfg.DataDirectory)
	}
	if cfg.SiteToken != "env-token" {
		t.Errorf("SiteToken = %q, want env value", cfg.SiteToken)
	}
}

func TestHasAllEnvVars(t *testing.T) {
	t.Setenv("CALYPSO_SITE_URL", "https://env.example.com")
	t.Setenv("CALYPSO_SITE_ID", "99")
	t.Setenv("CALYPSO_DATA_DIR", "")

	if HasAllEnvVars() {
		t.Error("HasAllEnvVars() = true with CALYPSO_DATA_DIR unset")
	}
	if !HasAnyEnvVar() {
		t.Error("HasAnyEnvVar() = false with two vars set")
	}
	if got := GetMissingEnvVar(); got != "CALYPSO_DATA_DIR" {
		t.Errorf("GetMissingEnvVar() = %q, want CALYPSO_DATA_DIR", got)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	got := ExpandPath("~/.local/share/calypso")
	if got != "/home/tester/.local/share/calypso" {
		t.Errorf("ExpandPath() = %q", got)
	}

	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want empty", got)
	}
}
