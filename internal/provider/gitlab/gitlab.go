package gitlab

import (
	"context"
	"fmt"
	"net/http"

	"github.com/drewdunne/oscar/internal/provider"
	"github.com/xanzy/go-gitlab"
)

// Ensure GitLabProvider implements provider.Provider.
var _ provider.Provider = (*GitLabProvider)(nil)

// GitLabProvider implements provider.Provider for GitLab.
type GitLabProvider struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the GitLab provider.
type Option func(*GitLabProvider)

// WithBaseURL sets a custom base URL (self-managed GitLab, or testing).
func WithBaseURL(baseURL string) Option {
	return func(p *GitLabProvider) {
		p.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(p *GitLabProvider) {
		p.httpClient = c
	}
}

// New creates a new GitLab provider.
func New(opts ...Option) *GitLabProvider {
	p := &GitLabProvider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *GitLabProvider) Name() string {
	return "gitlab"
}

// Login obtains an OAuth token with the password grant and checks it by
// fetching the current user.
func (p *GitLabProvider) Login(ctx context.Context, username, password string) (provider.Session, error) {
	var opts []gitlab.ClientOptionFunc
	if p.baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(p.baseURL+"/api/v4"))
	}
	if p.httpClient != nil {
		opts = append(opts, gitlab.WithHTTPClient(p.httpClient))
	}

	client, err := gitlab.NewBasicAuthClient(username, password, opts...)
	if err != nil {
		return nil, fmt.Errorf("logging in as %s: %w", username, err)
	}

	if _, _, err := client.Users.CurrentUser(gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("logging in as %s: %w", username, err)
	}

	return &session{client: client}, nil
}

// session is a GitLab client authenticated as one user.
type session struct {
	client *gitlab.Client
}

// Star stars the project. GitLab answers 201 Created, or 304 Not Modified
// when the project is already starred.
func (s *session) Star(ctx context.Context, repo provider.Repository) error {
	_, resp, err := s.client.Projects.StarProject(repo.FullName(), gitlab.WithContext(ctx))
	if resp != nil && resp.StatusCode == http.StatusNotModified {
		// Already starred; the empty body may fail to decode.
		return nil
	}
	if err != nil {
		return fmt.Errorf("starring %s: %w", repo, err)
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	default:
		return &provider.StatusError{Op: "starring " + repo.FullName(), StatusCode: resp.StatusCode}
	}
}
