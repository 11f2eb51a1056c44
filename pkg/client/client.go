package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marcusziade/githubcards/pkg/db"
	"github.com/marcusziade/githubcards/pkg/models"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public GitHub REST API
const DefaultBaseURL = "https://api.github.com"

// ErrNotFound is returned when the users API has no such login
var ErrNotFound = errors.New("user not found")

// StatusError is returned for any other non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-2xx response: %s", e.Status)
}

// Cache stores successful lookups by username
type Cache interface {
	Get(ctx context.Context, username string) (*db.Lookup, error)
	Put(ctx context.Context, username string, profile models.Profile) error
}

// Client represents the GitHub users API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    *time.Duration
	cache      Cache
	logger     *zap.Logger
}

// NewClient creates a new GitHub users client
func NewClient(options ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
	}

	for _, option := range options {
		option(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout != nil {
		// never mutate a client the caller handed in
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}

	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")

	return c, nil
}

// Option defines a client option
type Option func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout, applied to a copy of the HTTP
// client once all options have run. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

// WithToken sends the token as a bearer credential
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithCache sets the lookup cache
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// FetchUser retrieves the profile of a GitHub user by login
func (c *Client) FetchUser(ctx context.Context, username string) (*models.Profile, error) {
	if c.cache != nil {
		lookup, err := c.cache.Get(ctx, username)
		switch {
		case err == nil:
			c.logger.Debug("Lookup served from cache", zap.String("username", username))
			profile := lookup.Profile
			return &profile, nil
		case !errors.Is(err, db.ErrMiss):
			c.logger.Warn("Lookup cache read failed", zap.String("username", username), zap.Error(err))
		}
	}

	profile, err := c.fetch(ctx, username)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, username, *profile); err != nil {
			c.logger.Warn("Lookup cache write failed", zap.String("username", username), zap.Error(err))
		}
	}

	return profile, nil
}

func (c *Client) fetch(ctx context.Context, username string) (*models.Profile, error) {
	userURL := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "githubcards")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user %s: %w", username, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Users API responded",
		zap.String("username", username),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// unknown fields are dropped and missing ones stay blank
	var profile models.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", username, err)
	}

	return &profile, nil
}
