package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type SiteConfig struct {
	URL string `toml:"url"`
	ID  string `toml:"id"`
}

type SecurityConfig struct {
	Method     string `toml:"method"`
	SSHKeyPath string `toml:"ssh_key_path"`
}

type UserConfig struct {
	Site                SiteConfig     `toml:"site"`
	Security            SecurityConfig `toml:"security"`
	PollIntervalSeconds int            `toml:"poll_interval_seconds"`
}

type Config struct {
	DataDirectory       string
	SiteURL             string
	SiteID              string
	SiteToken           string
	SecurityMethod      string
	SSHKeyPath          string
	PollIntervalSeconds int
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// PollInterval returns the status-poll cadence, falling back to the
// default when the configured value is unusable.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) applyEnvOverrides() {
	if siteURL := os.Getenv("CALYPSO_SITE_URL"); siteURL != "" {
		c.SiteURL = siteURL
	}
	if siteID := os.Getenv("CALYPSO_SITE_ID"); siteID != "" {
		c.SiteID = siteID
	}
	if dataDir := os.Getenv("CALYPSO_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if token := os.Getenv("CALYPSO_SITE_TOKEN"); token != "" {
		c.SiteToken = token
	}
}

func CheckDebug() bool {
	debug := os.Getenv("CALYPSO_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may contain site identifiers and API paths
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (CALYPSO_DEBUG=%s) ===", os.Getenv("CALYPSO_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func HasAllEnvVars() bool {
	return os.Getenv("CALYPSO_SITE_URL") != "" &&
		os.Getenv("CALYPSO_SITE_ID") != "" &&
		os.Getenv("CALYPSO_DATA_DIR") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("CALYPSO_SITE_URL") != "" ||
		os.Getenv("CALYPSO_SITE_ID") != "" ||
		os.Getenv("CALYPSO_DATA_DIR") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("CALYPSO_SITE_URL") == "" {
		return "CALYPSO_SITE_URL"
	}
	if os.Getenv("CALYPSO_SITE_ID") == "" {
		return "CALYPSO_SITE_ID"
	}
	if os.Getenv("CALYPSO_DATA_DIR") == "" {
		return "CALYPSO_DATA_DIR"
	}
	return ""
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:       "~/.local/share/calypso",
		PollIntervalSeconds: 3,
	}

	settingsPath := GetSettingsFilePath()

	if FileExists(settingsPath) || !HasAllEnvVars() {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.SiteURL = userCfg.Site.URL
		cfg.SiteID = userCfg.Site.ID
		cfg.SecurityMethod = userCfg.Security.Method
		cfg.SSHKeyPath = userCfg.Security.SSHKeyPath
		if userCfg.PollIntervalSeconds > 0 {
			cfg.PollIntervalSeconds = userCfg.PollIntervalSeconds
		}
	}

	// Env vars win over file configuration.
	cfg.applyEnvOverrides()

	if cfg.SiteURL == "" || cfg.SiteID == "" {
		return nil, fmt.Errorf("site is not configured: set site.url and site.id in config.toml or export CALYPSO_SITE_URL and CALYPSO_SITE_ID")
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
