package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// CredentialStore manages encrypted or plain-text site API tokens
type CredentialStore struct {
	method     SecurityMethod
	tokens     map[string]string // siteID → API token
	sshKeyPath string            // path to SSH key (ssh_key method only)
	passphrase string            // Optional passphrase for encrypted keys
	encManager *EncryptionManager
}

// NewCredentialStore creates a new credential store
func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	return &CredentialStore{
		method:     method,
		tokens:     make(map[string]string),
		sshKeyPath: sshKeyPath,
	}
}

// SetPassphrase sets the passphrase for decrypting the SSH key
func (c *CredentialStore) SetPassphrase(passphrase string) {
	c.passphrase = passphrase
	if c.encManager != nil {
		c.encManager.SetPassphrase(passphrase)
	}
}

// Load loads tokens from disk based on the configured security method
func (c *CredentialStore) Load(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		tokens, err := loadPlainText(dataDir)
		if err != nil {
			return err
		}
		c.tokens = tokens
		return nil

	case SecuritySSHKey:
		tokens, err := c.loadSSHEncrypted(dataDir)
		if err != nil {
			return err
		}
		c.tokens = tokens
		return nil

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// Save saves tokens to disk based on the configured security method
func (c *CredentialStore) Save(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		return savePlainText(dataDir, c.tokens)

	case SecuritySSHKey:
		return c.saveSSHEncrypted(dataDir)

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// GetToken retrieves the API token for a site
func (c *CredentialStore) GetToken(siteID string) string {
	return c.tokens[siteID]
}

// SetToken stores the API token for a site
func (c *CredentialStore) SetToken(siteID string, token string) error {
	c.tokens[siteID] = token
	return nil
}

// DeleteToken removes the API token for a site
func (c *CredentialStore) DeleteToken(siteID string) error {
	delete(c.tokens, siteID)
	return nil
}

// GetMethod returns the current security method
func (c *CredentialStore) GetMethod() SecurityMethod {
	return c.method
}

// credentialsPath returns the path to the plain text credentials file
func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}

// encryptedCredentialsPath returns the path to the encrypted credentials file
func encryptedCredentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.enc")
}

// ===== Plain Text Storage =====

// loadPlainText loads tokens from a plain text TOML file
func loadPlainText(dataDir string) (map[string]string, error) {
	path := credentialsPath(dataDir)

	// If file doesn't exist, return empty map (no error)
	if !FileExists(path) {
		return make(map[string]string), nil
	}

	type credentialsFile struct {
		Tokens map[string]string `toml:"tokens"`
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if cf.Tokens == nil {
		cf.Tokens = make(map[string]string)
	}
	return cf.Tokens, nil
}

// savePlainText saves tokens to a plain text TOML file with 0600 permissions
func savePlainText(dataDir string, tokens map[string]string) error {
	path := credentialsPath(dataDir)

	type credentialsFile struct {
		Tokens map[string]string `toml:"tokens"`
	}

	cf := credentialsFile{
		Tokens: tokens,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cf); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	return nil
}

// ===== SSH Key Encrypted Storage =====

// loadSSHEncrypted loads and decrypts tokens using SSH key encryption
func (c *CredentialStore) loadSSHEncrypted(dataDir string) (map[string]string, error) {
	path := encryptedCredentialsPath(dataDir)

	// If file doesn't exist, return empty map (no error)
	if !FileExists(path) {
		return make(map[string]string), nil
	}

	// Reinitialize if manager doesn't exist OR if we now have a passphrase
	if c.encManager == nil || c.passphrase != "" {
		c.encManager = NewEncryptionManager(EncryptionSSHKey, c.sshKeyPath)
		c.encManager.SetPassphrase(c.passphrase)
		if err := c.encManager.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to initialize encryption: %w", err)
		}
	}

	encryptedData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted credentials: %w", err)
	}

	decryptedData, err := c.encManager.Decrypt(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var tokens map[string]string
	if err := json.Unmarshal(decryptedData, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse decrypted credentials: %w", err)
	}

	return tokens, nil
}

// saveSSHEncrypted encrypts and saves tokens using SSH key encryption
func (c *CredentialStore) saveSSHEncrypted(dataDir string) error {
	path := encryptedCredentialsPath(dataDir)

	// Reinitialize if manager doesn't exist OR if we now have a passphrase
	if c.encManager == nil || c.passphrase != "" {
		c.encManager = NewEncryptionManager(EncryptionSSHKey, c.sshKeyPath)
		c.encManager.SetPassphrase(c.passphrase)
		if err := c.encManager.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize encryption: %w", err)
		}
	}

	jsonData, err := json.MarshalIndent(c.tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	encryptedData, err := c.encManager.Encrypt(jsonData)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	if err := os.WriteFile(path, encryptedData, 0600); err != nil {
		return fmt.Errorf("failed to write encrypted credentials: %w", err)
	}

	return nil
}
