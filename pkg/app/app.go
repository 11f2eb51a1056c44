// Package app holds the root of the card application: the session's
// profile collection and the form that adds to it.
package app

import (
	"fmt"
	"sync"

	"github.com/marcusziade/githubcards/pkg/form"
	"github.com/marcusziade/githubcards/pkg/models"
	"go.uber.org/zap"
)

// Variant names the form an App composes
type Variant string

const (
	// VariantRef reads the element on submit and looks the user up
	VariantRef Variant = "ref"
	// VariantValue tracks keystrokes in state and only logs submissions
	VariantValue Variant = "value"
)

// App owns the authoritative profile collection for one session
type App struct {
	title   string
	variant Variant
	fetcher form.Fetcher
	logger  *zap.Logger

	mu       sync.RWMutex
	profiles Collection
	version  uint64
}

// Option defines an app option
type Option func(*App)

// WithVariant selects the form variant
func WithVariant(v Variant) Option {
	return func(a *App) {
		a.variant = v
	}
}

// WithFetcher sets the user lookup used by the ref form
func WithFetcher(f form.Fetcher) Option {
	return func(a *App) {
		a.fetcher = f
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithProfiles replaces the seed profiles
func WithProfiles(profiles []models.Profile) Option {
	return func(a *App) {
		a.profiles = NewCollection(profiles)
	}
}

// New creates an App seeded with models.SeedProfiles
func New(title string, options ...Option) (*App, error) {
	a := &App{
		title:    title,
		variant:  VariantRef,
		logger:   zap.NewNop(),
		profiles: NewCollection(models.SeedProfiles()),
	}

	for _, option := range options {
		option(a)
	}

	switch a.variant {
	case VariantRef:
		if a.fetcher == nil {
			return nil, fmt.Errorf("form variant %q needs a fetcher", a.variant)
		}
	case VariantValue:
	default:
		return nil, fmt.Errorf("unknown form variant %q", a.variant)
	}

	return a, nil
}

// Title returns the page title
func (a *App) Title() string { return a.title }

// Variant returns the configured form variant
func (a *App) Variant() Variant { return a.variant }

// Profiles returns the current collection
func (a *App) Profiles() Collection {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.profiles
}

// Version increases by one on every append
func (a *App) Version() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

// Append adds p to the end of the collection. It is the callback every
// form of this App submits to.
func (a *App) Append(p models.Profile) {
	a.mu.Lock()
	a.profiles = a.profiles.Append(p)
	a.version++
	n := a.profiles.Len()
	a.mu.Unlock()

	a.logger.Info("Profile added", zap.String("name", p.Name), zap.Int("cards", n))
}

// NewForm composes the configured form variant bound to Append.
// observers see each profile after it has been appended.
func (a *App) NewForm(observers ...func(models.Profile)) *form.Form {
	if a.variant == VariantValue {
		return form.NewValueForm(a.logger)
	}
	return form.NewRefForm(a.fetcher, func(p models.Profile) {
		a.Append(p)
		for _, observe := range observers {
			observe(p)
		}
	})
}
