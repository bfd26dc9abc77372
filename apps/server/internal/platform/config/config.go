// Package config loads shelf server configuration from an optional YAML file
// with environment variable overrides. Environment always wins so deployed
// environments can keep secrets out of the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GitHub holds the remote store coordinates and credentials. Token auth and
// GitHub App auth are mutually exclusive; when AppID is set the App
// installation transport is used.
type GitHub struct {
	Owner          string `yaml:"owner"`
	Repo           string `yaml:"repo"`
	BaseURL        string `yaml:"baseUrl"` // empty = api.github.com; set for mock servers
	Token          string `yaml:"token"`
	AppID          int64  `yaml:"appId"`
	InstallationID int64  `yaml:"installationId"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// Config is the full server configuration.
type Config struct {
	Port   string `yaml:"port"`
	GitHub GitHub `yaml:"github"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{Port: "8080"}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.GitHub.Owner == "" || cfg.GitHub.Repo == "" {
		return nil, errors.New("github owner and repo must be configured")
	}
	if cfg.GitHub.AppID != 0 && cfg.GitHub.PrivateKeyPath == "" {
		return nil, errors.New("github app auth requires a private key path")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.GitHub.Owner, "GITHUB_OWNER")
	setString(&cfg.GitHub.Repo, "GITHUB_REPO")
	setString(&cfg.GitHub.BaseURL, "GITHUB_BASE_URL")
	setString(&cfg.GitHub.Token, "GITHUB_TOKEN")
	setInt64(&cfg.GitHub.AppID, "GITHUB_APP_ID")
	setInt64(&cfg.GitHub.InstallationID, "GITHUB_INSTALLATION_ID")
	setString(&cfg.GitHub.PrivateKeyPath, "GITHUB_PRIVATE_KEY_PATH")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = parsed
		}
	}
}
