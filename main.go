package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Francisco1000/wp-calypso/config"
	appmodel "github.com/Francisco1000/wp-calypso/model"
	"github.com/Francisco1000/wp-calypso/siteapi"
	"github.com/Francisco1000/wp-calypso/storage"
	"github.com/Francisco1000/wp-calypso/ui"
)

const Version = "v0.1.0"

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, all 3 must be set:\n"+
			"  • CALYPSO_SITE_URL\n"+
			"  • CALYPSO_SITE_ID\n"+
			"  • CALYPSO_DATA_DIR\n\n"+
			"Set the missing variable(s) before launching.",
			missingVar)

		runErrorModal("Configuration Error", errorMsg)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	token, err := resolveSiteToken(cfg)
	if err != nil {
		fmt.Printf("Failed to load credentials: %v\n", err)
		os.Exit(1)
	}
	if token == "" {
		runErrorModal("Missing API Token",
			"No API token found for site "+cfg.SiteID+".\n\n"+
				"Export CALYPSO_SITE_TOKEN or store a token in the\n"+
				"credentials file inside the data directory.")
		os.Exit(0)
	}

	client, err := siteapi.NewClient(cfg.SiteURL, cfg.SiteID, token)
	if err != nil {
		fmt.Printf("Failed to create site client: %v\n", err)
		os.Exit(1)
	}

	history, err := storage.NewHistoryStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize history storage: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := history.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to close history storage: %v", err)
		}
	}()

	checklistStorage, err := storage.NewChecklistStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize checklist storage: %v\n", err)
		os.Exit(1)
	}

	dataModel := appmodel.NewModel(cfg, client, history, checklistStorage, Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running calypso: %v\n", err)
		os.Exit(1)
	}
}

// resolveSiteToken finds the site API token: the environment wins,
// otherwise the credential store in the data directory is consulted.
func resolveSiteToken(cfg *config.Config) (string, error) {
	if cfg.SiteToken != "" {
		return cfg.SiteToken, nil
	}

	method := config.SecurityMethod(cfg.SecurityMethod)
	if method == "" {
		method = config.SecurityPlainText
	}

	store := config.NewCredentialStore(method, config.ExpandPath(cfg.SSHKeyPath))
	if passphrase := os.Getenv("CALYPSO_SSH_PASSPHRASE"); passphrase != "" {
		store.SetPassphrase(passphrase)
	}
	if err := store.Load(cfg.DataDir()); err != nil {
		return "", err
	}
	return store.GetToken(cfg.SiteID), nil
}

func runErrorModal(title, message string) {
	p := tea.NewProgram(
		ui.NewErrorModal(title, message),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
