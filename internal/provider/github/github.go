package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/drewdunne/oscar/internal/provider"
	"github.com/google/go-github/v60/github"
)

// Ensure GitHubProvider implements provider.Provider.
var _ provider.Provider = (*GitHubProvider)(nil)

// GitHubProvider implements provider.Provider for GitHub.
type GitHubProvider struct {
	baseURL   *url.URL
	transport http.RoundTripper
}

// Option configures the GitHub provider.
type Option func(*GitHubProvider)

// WithBaseURL sets a custom API base URL (GitHub Enterprise, or testing).
func WithBaseURL(rawURL string) Option {
	return func(p *GitHubProvider) {
		if rawURL == "" {
			return
		}
		u, err := url.Parse(strings.TrimSuffix(rawURL, "/") + "/")
		if err == nil {
			p.baseURL = u
		}
	}
}

// WithTransport sets the transport that authenticated requests go through.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *GitHubProvider) {
		p.transport = rt
	}
}

// New creates a new GitHub provider.
func New(opts ...Option) *GitHubProvider {
	p := &GitHubProvider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return "github"
}

// Login verifies the credentials against the authenticated user endpoint and
// returns a session that reuses them. The password may be a personal access
// token.
func (p *GitHubProvider) Login(ctx context.Context, username, password string) (provider.Session, error) {
	tp := &github.BasicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: p.transport,
	}
	client := github.NewClient(tp.Client())
	if p.baseURL != nil {
		client.BaseURL = p.baseURL
	}

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("logging in as %s: %w", username, err)
	}

	return &session{client: client, login: user.GetLogin()}, nil
}

// session is a GitHub client authenticated as one user.
type session struct {
	client *github.Client
	login  string
}

// Star stars the repository. GitHub answers 204 No Content on success.
func (s *session) Star(ctx context.Context, repo provider.Repository) error {
	resp, err := s.client.Activity.Star(ctx, repo.Owner, repo.Name)
	if err != nil {
		return fmt.Errorf("starring %s: %w", repo, err)
	}
	if resp.StatusCode != http.StatusNoContent {
		return &provider.StatusError{Op: "starring " + repo.FullName(), StatusCode: resp.StatusCode}
	}
	return nil
}
