// ABOUTME: Factories that turn a Config into live storage, rate tables, and sessions.
// ABOUTME: Each backend name is validated here so commands fail early on typos.

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/harperreed/shapementor/internal/session"
	"github.com/harperreed/shapementor/internal/storage"
)

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(ctx context.Context) (storage.Repository, error) {
	switch backend := c.GetBackend(); backend {
	case "sqlite":
		return storage.Open(filepath.Join(c.GetDataDir(), "shapementor.db"))
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres backend requires database_url")
		}
		return storage.OpenPostgres(ctx, c.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenRates creates the calorie lookup service. The memory backend is
// reseeded on every start; badger keeps upserted rates on disk.
func (c *Config) OpenRates() (*lookup.Service, error) {
	switch backend := strings.ToLower(c.Reference.Backend); backend {
	case "", "memory":
		return lookup.NewMemoryService(), nil
	case "badger":
		return lookup.OpenBadgerService(c.GetReferenceDir())
	default:
		return nil, fmt.Errorf("unknown reference backend: %q", backend)
	}
}

// OpenSessions creates the selected-user session store.
func (c *Config) OpenSessions(ctx context.Context) (session.Store, error) {
	ttl, err := c.GetSessionTTL()
	if err != nil {
		return nil, err
	}

	switch backend := strings.ToLower(c.Session.Backend); backend {
	case "", "memory":
		return session.NewMemoryStore(ttl), nil
	case "redis":
		return session.OpenRedis(ctx, session.RedisOptions{
			Addr:     c.Session.RedisAddr,
			Password: c.Session.RedisPassword,
			DB:       c.Session.RedisDB,
			TTL:      ttl,
		})
	default:
		return nil, fmt.Errorf("unknown session backend: %q", backend)
	}
}
