package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcusziade/githubcards/pkg/models"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the cache alive only as long as the process.
const MemoryDSN = "file::memory:?cache=shared"

// ErrMiss is returned when a username has no cached lookup
var ErrMiss = errors.New("lookup not cached")

// Lookup is one cached users API response
type Lookup struct {
	Username  string         `json:"username"`
	Profile   models.Profile `json:"profile"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// DB represents the lookup cache connection
type DB struct {
	db *sql.DB
}

// New creates a new database connection
func New(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a shared in-memory database disappears when its last connection
	// closes; one connection also keeps sqlite writers from colliding
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db}, nil
}

// InitSchema initializes the database schema
func (d *DB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lookups (
		username TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		login TEXT NOT NULL DEFAULT '',
		html_url TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lookups_fetched_at ON lookups (fetched_at);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Put stores a lookup, replacing any earlier one for the same username
func (d *DB) Put(ctx context.Context, username string, profile models.Profile) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO lookups (username, name, avatar_url, company, login, html_url, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			name = excluded.name,
			avatar_url = excluded.avatar_url,
			company = excluded.company,
			login = excluded.login,
			html_url = excluded.html_url,
			fetched_at = excluded.fetched_at
	`,
		normalize(username),
		profile.Name,
		profile.AvatarURL,
		profile.Company,
		profile.Login,
		profile.HTMLURL,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store lookup: %w", err)
	}
	return nil
}

// Get retrieves a cached lookup by username
func (d *DB) Get(ctx context.Context, username string) (*Lookup, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT username, name, avatar_url, company, login, html_url, fetched_at
		FROM lookups
		WHERE username = ?
	`, normalize(username))

	l, err := scanLookup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrMiss, username)
		}
		return nil, fmt.Errorf("failed to scan lookup: %w", err)
	}
	return l, nil
}

// List returns all cached lookups, oldest first
func (d *DB) List(ctx context.Context) ([]*Lookup, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT username, name, avatar_url, company, login, html_url, fetched_at
		FROM lookups
		ORDER BY fetched_at, username
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	lookups := []*Lookup{}
	for rows.Next() {
		l, err := scanLookup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}
		lookups = append(lookups, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lookups: %w", err)
	}

	return lookups, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLookup(s scanner) (*Lookup, error) {
	l := &Lookup{}
	var fetchedAt string
	err := s.Scan(
		&l.Username,
		&l.Profile.Name,
		&l.Profile.AvatarURL,
		&l.Profile.Company,
		&l.Profile.Login,
		&l.Profile.HTMLURL,
		&fetchedAt,
	)
	if err != nil {
		return nil, err
	}
	l.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid fetched_at for %s: %w", l.Username, err)
	}
	return l, nil
}

// GitHub logins are case-insensitive
func normalize(username string) string {
	return strings.ToLower(username)
}
