package app

import (
	"fmt"

	"github.com/marcusziade/githubcards/pkg/client"
	"github.com/marcusziade/githubcards/pkg/config"
	"github.com/marcusziade/githubcards/pkg/db"
	"go.uber.org/zap"
)

// NewClient builds the users API client described by cfg. The returned
// cache is nil unless cfg enables it; the caller closes it.
func NewClient(cfg *config.Config, logger *zap.Logger) (*client.Client, *db.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout, err := cfg.GetGitHubTimeout()
	if err != nil {
		return nil, nil, err
	}

	options := []client.Option{
		client.WithBaseURL(cfg.GitHub.BaseURL),
		client.WithTimeout(timeout),
		client.WithToken(cfg.GitHub.Token),
		client.WithLogger(logger),
	}

	var cache *db.DB
	if cfg.Cache.Enabled {
		cache, err = db.New(cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(); err != nil {
			cache.Close()
			return nil, nil, err
		}
		options = append(options, client.WithCache(cache))
	}

	c, err := client.NewClient(options...)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, nil, err
	}
	return c, cache, nil
}

// FromConfig builds an App with the title, form variant and client
// described by cfg.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*App, *db.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, cache, err := NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	a, err := New(cfg.Title,
		WithVariant(Variant(cfg.Form.Variant)),
		WithFetcher(c),
		WithLogger(logger),
	)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, nil, fmt.Errorf("failed to create app: %w", err)
	}
	return a, cache, nil
}
