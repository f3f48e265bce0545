// Package config loads the user configuration: the JSON config file under
// the dot directory, an environment override for the credential, and any
// YAML rule packs that contribute extra patterns and trusted domains.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir  = ".hookguard"
	DefaultConfigFile = "config.json"
	DefaultLogFile    = "audit.jsonl"
	PackDir           = "packs"

	// APIKeyEnvVar overrides credential.apiKey from the config file.
	APIKeyEnvVar = "HOOKGUARD_API_KEY"

	DefaultTriageModel = "claude-3-5-haiku-latest"
	DefaultReviewModel = "claude-sonnet-4-20250514"
)

// Config is the on-disk JSON shape plus the merged rule-pack contributions.
// The decision path treats a loaded Config as read-only.
type Config struct {
	Credential      Credential     `json:"credential"`
	Models          Models         `json:"models"`
	TrustedDomains  []string       `json:"trustedDomains"`
	CustomPatterns  CustomPatterns `json:"customPatterns"`
	AllowedMCPTools []string       `json:"allowedMCPTools"`
	Logging         Logging        `json:"logging"`

	// ConfigDir is resolved at load time, not persisted.
	ConfigDir string `json:"-"`
}

type Credential struct {
	APIKey string `json:"apiKey"`
}

type Models struct {
	Triage string `json:"triage"`
	Review string `json:"review"`
}

type CustomPatterns struct {
	Allow []string `json:"allow"`
	Block []string `json:"block"`
}

type Logging struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Dir returns the dot directory under the user's home, creating it 0700.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	dir := filepath.Join(home, DefaultConfigDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// Load reads the config file, applies defaults, the environment credential
// override, and rule-pack merges. A missing config file yields defaults; a
// corrupt one is an error so a typo cannot silently disable custom rules.
func Load(diag func(format string, args ...any)) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{ConfigDir: dir}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse %s: %w", path, err)
		}
		cfg.ConfigDir = dir
	case os.IsNotExist(err):
		// First run: defaults only.
	default:
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if key := os.Getenv(APIKeyEnvVar); key != "" {
		cfg.Credential.APIKey = key
	}
	if cfg.Models.Triage == "" {
		cfg.Models.Triage = DefaultTriageModel
	}
	if cfg.Models.Review == "" {
		cfg.Models.Review = DefaultReviewModel
	}
	if cfg.Logging.Path == "" {
		cfg.Logging.Path = filepath.Join(dir, DefaultLogFile)
	}

	mergePacks(cfg, filepath.Join(dir, PackDir), diag)

	return cfg, nil
}

// Save writes the config file with owner-only permissions; it may carry a
// credential.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}
