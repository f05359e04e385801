// Package auth implements the optional GitHub sign-in. The dashboard only
// uses the resulting login name to show who is signed in; it never gates
// access on it and discards the token after the user lookup.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const defaultUserURL = "https://api.github.com/user"

// ErrDisabled is returned when sign-in is attempted without credentials configured.
var ErrDisabled = errors.New("GitHub sign-in is not configured")

// GitHub performs the OAuth authorization code flow against GitHub
type GitHub struct {
	config  *oauth2.Config
	userURL string
}

// NewGitHub creates a GitHub sign-in provider. With an empty client id or
// secret the provider is disabled.
func NewGitHub(clientID, clientSecret, redirectURL string) *GitHub {
	if clientID == "" || clientSecret == "" {
		return &GitHub{}
	}
	return &GitHub{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user"},
		},
		userURL: defaultUserURL,
	}
}

// WithEndpoint points the provider at other OAuth and user endpoints
func (g *GitHub) WithEndpoint(endpoint oauth2.Endpoint, userURL string) *GitHub {
	if g.config != nil {
		g.config.Endpoint = endpoint
	}
	g.userURL = userURL
	return g
}

// Enabled reports whether sign-in is configured
func (g *GitHub) Enabled() bool {
	return g != nil && g.config != nil
}

// AuthCodeURL returns the GitHub consent page URL for state
func (g *GitHub) AuthCodeURL(state string) (string, error) {
	if !g.Enabled() {
		return "", ErrDisabled
	}
	return g.config.AuthCodeURL(state), nil
}

// Login exchanges an authorization code and returns the user's login name
func (g *GitHub) Login(ctx context.Context, code string) (string, error) {
	if !g.Enabled() {
		return "", ErrDisabled
	}

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("unexpected status code %d from user endpoint: %s", resp.StatusCode, body)
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("failed to parse user response: %w", err)
	}
	if user.Login == "" {
		return "", fmt.Errorf("user response has no login")
	}

	return user.Login, nil
}
