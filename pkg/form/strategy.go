package form

import (
	"context"
	"fmt"

	"github.com/marcusziade/githubcards/pkg/models"
	"go.uber.org/zap"
)

// Strategy turns a submitted username into a profile or an error.
// A nil profile with a nil error means there is nothing to add.
type Strategy interface {
	Submit(ctx context.Context, username string) (*models.Profile, error)
}

// Fetcher looks up a GitHub user
type Fetcher interface {
	FetchUser(ctx context.Context, username string) (*models.Profile, error)
}

// Lookup resolves usernames through the users API
type Lookup struct {
	fetcher Fetcher
}

// NewLookup creates a Lookup strategy backed by fetcher
func NewLookup(fetcher Fetcher) *Lookup {
	return &Lookup{fetcher: fetcher}
}

// Submit fetches the user's profile
func (l *Lookup) Submit(ctx context.Context, username string) (*models.Profile, error) {
	profile, err := l.fetcher.FetchUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", username, err)
	}
	return profile, nil
}

// Echo only reports the submitted username. It never yields a profile.
type Echo struct {
	logger *zap.Logger
}

// NewEcho creates an Echo strategy writing to logger
func NewEcho(logger *zap.Logger) *Echo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Echo{logger: logger}
}

// Submit logs the username
func (e *Echo) Submit(_ context.Context, username string) (*models.Profile, error) {
	e.logger.Info("Form submitted", zap.String("username", username))
	return nil, nil
}
