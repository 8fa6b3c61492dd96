package provider

import "context"

//go:generate mockgen -source=provider.go -destination=mock/provider.go -package=mock

// Provider defines the interface for repository hosting providers.
type Provider interface {
	// Name returns the provider name (github, gitlab).
	Name() string

	// Login exchanges a username and password for an authenticated session.
	Login(ctx context.Context, username, password string) (Session, error)
}

// Session is an authenticated connection acting as one user.
type Session interface {
	// Star stars the repository for the logged in user.
	Star(ctx context.Context, repo Repository) error
}
