package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/platform/db"
	"time"
)

// SQLRouteCache is a SQL-backed cache for computed routes.
// Keys are expected to be namespaced by the caller.
type SQLRouteCache struct {
	DB     *sql.DB
	Driver string
}

func NewSQLRouteCache(conn *sql.DB, driver string) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, Driver: driver}
}

// Fetch a cached route by key.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (domain.Route, bool, error) {
	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}
	if key == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	query := `
	SELECT found, cost, path
	FROM route_cache
	WHERE cache_key = ?;
	`

	var (
		found int
		cost  int
		path  string
	)
	err := s.DB.QueryRowContext(ctx, db.Rebind(s.Driver, query), key).Scan(&found, &cost, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	r := domain.Route{Found: found == 1, Cost: cost}
	if err := json.Unmarshal([]byte(path), &r.Path); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: decode path: %w", key, err)
	}

	return r, true, nil
}

// Store a route, replacing any previous entry for key.
func (s *SQLRouteCache) Put(ctx context.Context, key string, r domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	path, err := json.Marshal(r.Path)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: encode path: %w", key, err)
	}

	found := 0
	if r.Found {
		found = 1
	}

	query := `
	INSERT INTO route_cache (cache_key, found, cost, path, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET found = excluded.found,
		cost = excluded.cost,
		path = excluded.path,
		created_at = excluded.created_at;
	`
	if _, err := s.DB.ExecContext(ctx, db.Rebind(s.Driver, query), key, found, r.Cost, string(path), time.Now().UnixNano()); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
