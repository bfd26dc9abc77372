// Package github builds authenticated GitHub API clients for the contents
// adapter in apps/server/internal/adapters/github.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"

	"github.com/tilsley/shelf/apps/server/internal/platform/config"
)

const defaultAPIURL = "https://api.github.com"

// NewClient creates a *github.Client from the configured credentials:
// GitHub App installation auth when an app ID is set, personal access token
// otherwise. An empty token yields an unauthenticated client, which only
// makes sense against a mock server.
func NewClient(cfg config.GitHub) (*gogithub.Client, error) {
	if cfg.AppID != 0 {
		return newAppClient(cfg)
	}
	return newTokenClient(cfg), nil
}

func newTokenClient(cfg config.GitHub) *gogithub.Client {
	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	c := gogithub.NewClient(httpClient)
	applyBaseURL(c, cfg.BaseURL)
	return c
}

func newAppClient(cfg config.GitHub) (*gogithub.Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultAPIURL
	}

	tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.AppID, cfg.InstallationID, cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("github app auth: %w", err)
	}
	tr.BaseURL = base

	c := gogithub.NewClient(&http.Client{Transport: tr})
	applyBaseURL(c, cfg.BaseURL)
	return c, nil
}

func applyBaseURL(c *gogithub.Client, baseURL string) {
	if baseURL == "" || baseURL == defaultAPIURL {
		return
	}
	u, err := url.Parse(baseURL + "/")
	if err != nil {
		return
	}
	c.BaseURL = u
}
