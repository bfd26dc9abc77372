package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilsley/shelf/apps/server/internal/platform/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("reads the YAML file", func(t *testing.T) {
		path := writeConfig(t, `
port: "9999"
github:
  owner: acme
  repo: fixtures
  baseUrl: http://localhost:9090
  token: tok-123
`)

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, "acme", cfg.GitHub.Owner)
		assert.Equal(t, "fixtures", cfg.GitHub.Repo)
		assert.Equal(t, "http://localhost:9090", cfg.GitHub.BaseURL)
		assert.Equal(t, "tok-123", cfg.GitHub.Token)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, `
github:
  owner: acme
  repo: fixtures
`)
		t.Setenv("PORT", "7777")
		t.Setenv("GITHUB_REPO", "other")
		t.Setenv("GITHUB_APP_ID", "42")
		t.Setenv("GITHUB_PRIVATE_KEY_PATH", "/tmp/key.pem")

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7777", cfg.Port)
		assert.Equal(t, "other", cfg.GitHub.Repo)
		assert.Equal(t, int64(42), cfg.GitHub.AppID)
	})

	t.Run("environment alone is enough, with the default port", func(t *testing.T) {
		t.Setenv("GITHUB_OWNER", "acme")
		t.Setenv("GITHUB_REPO", "fixtures")

		cfg, err := config.Load("")

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
	})

	t.Run("missing owner or repo fails validation", func(t *testing.T) {
		t.Setenv("GITHUB_OWNER", "")
		t.Setenv("GITHUB_REPO", "")

		_, err := config.Load("")
		require.ErrorContains(t, err, "owner and repo")
	})

	t.Run("app auth without a key path fails validation", func(t *testing.T) {
		t.Setenv("GITHUB_OWNER", "acme")
		t.Setenv("GITHUB_REPO", "fixtures")
		t.Setenv("GITHUB_APP_ID", "42")

		_, err := config.Load("")
		require.ErrorContains(t, err, "private key path")
	})

	t.Run("unreadable file is an error", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.ErrorContains(t, err, "read config")
	})

	t.Run("malformed YAML is an error", func(t *testing.T) {
		path := writeConfig(t, "port: [not a string")

		_, err := config.Load(path)
		require.ErrorContains(t, err, "parse config")
	})
}
