package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/calypso",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		PollIntervalSeconds: 3,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Calypso System Configuration
# Location: ~/.config/calypso/settings.toml
# This file uses TOML format: https://toml.io

# Directory where update history and user config are stored
data_directory = "~/.local/share/calypso"
`
}

func GenerateUserConfigTemplate() string {
	return `# Calypso User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[site]
# Base URL of the site management API
url = ""

# Identifier of the managed site
id = ""

# How often to poll update statuses, in seconds
poll_interval_seconds = 3

[security]
# Credential storage method: "plaintext" or "ssh_key"
method = "plaintext"

# SSH private key used to encrypt the site API token (ssh_key method)
ssh_key_path = ""
`
}
