package main

import (
	"context"
	"fmt"

	"github.com/drewdunne/oscar/internal/config"
	"github.com/drewdunne/oscar/internal/dedupe"
	"github.com/drewdunne/oscar/internal/i18n"
	"github.com/drewdunne/oscar/internal/intent"
	"github.com/drewdunne/oscar/internal/registry"
	"go.uber.org/zap"
)

// app holds the wired components shared by every transport.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	providers *registry.Registry
	router    *intent.Router
	closers   []func() error
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	catalog, err := i18n.Default(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		providers: registry.New(cfg),
		router:    intent.NewRouter(log),
	}

	opts := []intent.StarProjectOption{
		intent.WithLogger(log),
		intent.WithTimeout(cfg.ProviderTimeout()),
	}

	store, err := a.dedupeStore(ctx)
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts = append(opts, intent.WithDedupe(store))
	}

	a.router.Register(intent.StarProjectIntent, intent.NewStarProject(a.providers, catalog, opts...))

	log.Info("bot ready",
		zap.Strings("providers", a.providers.List()),
		zap.Strings("intents", a.router.Intents()),
		zap.String("locale", catalog.Locale()),
	)
	return a, nil
}

// dedupeStore returns nil when deduplication is disabled.
func (a *app) dedupeStore(ctx context.Context) (dedupe.Store, error) {
	window := a.cfg.DedupeWindow()
	if window <= 0 {
		return nil, nil
	}

	if a.cfg.Dedupe.RedisURL == "" {
		return dedupe.NewMemory(window), nil
	}

	store, err := dedupe.NewRedis(ctx, a.cfg.Dedupe.RedisURL, window)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// Close releases connections opened by newApp.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn("closing", zap.Error(err))
		}
	}
}
