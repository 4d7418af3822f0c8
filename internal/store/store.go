// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Package store persists user preferences (favorite creators, platform
// subscriptions, watched titles) in an embedded DuckDB database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/rs/zerolog"
)

// Store is the user preference repository. Safe for concurrent use; DuckDB
// serializes writers internally.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// schema creates the preference tables. Creator and title ids are stored as
// strings: they are opaque provider identifiers here, the engine is the only
// place that interprets them numerically.
const schema = `
CREATE TABLE IF NOT EXISTS user_favorites (
	user_id    VARCHAR NOT NULL,
	creator_id VARCHAR NOT NULL,
	name       VARCHAR NOT NULL DEFAULT '',
	role       VARCHAR NOT NULL DEFAULT 'actor',
	added_at   TIMESTAMP NOT NULL DEFAULT current_timestamp,
	PRIMARY KEY (user_id, creator_id)
);

CREATE TABLE IF NOT EXISTS user_platforms (
	user_id VARCHAR NOT NULL,
	slug    VARCHAR NOT NULL,
	PRIMARY KEY (user_id, slug)
);

CREATE TABLE IF NOT EXISTS user_watched (
	user_id    VARCHAR NOT NULL,
	title_id   VARCHAR NOT NULL,
	watched_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
	PRIMARY KEY (user_id, title_id)
);
`

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New opens (creating if necessary) the preference database at path and
// ensures the schema exists. An empty path opens an in-memory database,
// which tests use.
func New(path string, opts ...Option) (*Store, error) {
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("store: open duckdb at %q: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialize schema: %w", err)
	}

	s := &Store{
		db:     db,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FavoriteCreatorIDs returns the user's favorite creator ids in the order
// they were added. The order matters: the feed engine processes favorites
// sequentially under a call quota, so earlier favorites get first claim.
func (s *Store) FavoriteCreatorIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT creator_id FROM user_favorites WHERE user_id = ? ORDER BY added_at, creator_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: query favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate favorites: %w", err)
	}
	return ids, nil
}

// AddFavorite upserts a favorite creator for the user.
func (s *Store) AddFavorite(ctx context.Context, userID, creatorID, name, role string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_favorites (user_id, creator_id, name, role) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, creator_id) DO UPDATE SET name = excluded.name, role = excluded.role`,
		userID, creatorID, name, role)
	if err != nil {
		return fmt.Errorf("store: add favorite %s for user %s: %w", creatorID, userID, err)
	}
	return nil
}

// RemoveFavorite deletes a favorite. Removing an absent favorite is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, userID, creatorID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_favorites WHERE user_id = ? AND creator_id = ?`, userID, creatorID)
	if err != nil {
		return fmt.Errorf("store: remove favorite %s for user %s: %w", creatorID, userID, err)
	}
	return nil
}

// PlatformSlugs returns the user's subscribed platform slugs.
func (s *Store) PlatformSlugs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug FROM user_platforms WHERE user_id = ? ORDER BY slug`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: query platforms for user %s: %w", userID, err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("store: scan platform: %w", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate platforms: %w", err)
	}
	return slugs, nil
}

// SetPlatforms replaces the user's platform subscriptions atomically.
func (s *Store) SetPlatforms(ctx context.Context, userID string, slugs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin platforms update for user %s: %w", userID, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_platforms WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("store: clear platforms for user %s: %w", userID, err)
	}
	for _, slug := range slugs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_platforms (user_id, slug) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			userID, slug); err != nil {
			return fmt.Errorf("store: insert platform %s for user %s: %w", slug, userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit platforms for user %s: %w", userID, err)
	}
	return nil
}

// WatchedExternalIDs returns the set of external title ids the user has
// marked watched, keyed by the stringified id.
func (s *Store) WatchedExternalIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title_id FROM user_watched WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: query watched for user %s: %w", userID, err)
	}
	defer rows.Close()

	watched := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan watched: %w", err)
		}
		watched[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate watched: %w", err)
	}
	return watched, nil
}

// MarkWatched records that the user has watched a title. Marking twice is a
// no-op.
func (s *Store) MarkWatched(ctx context.Context, userID, titleID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_watched (user_id, title_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		userID, titleID)
	if err != nil {
		return fmt.Errorf("store: mark watched %s for user %s: %w", titleID, userID, err)
	}
	return nil
}

// UnmarkWatched removes a watched mark. Removing an absent mark is a no-op.
func (s *Store) UnmarkWatched(ctx context.Context, userID, titleID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_watched WHERE user_id = ? AND title_id = ?`, userID, titleID)
	if err != nil {
		return fmt.Errorf("store: unmark watched %s for user %s: %w", titleID, userID, err)
	}
	return nil
}
