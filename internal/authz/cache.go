package authz

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// CheckFunc asks the backend whether the principal holds admin rights.
type CheckFunc func(ctx context.Context, principal string) (bool, error)

// Cache memoizes admin checks for the lifetime of the process. Results never
// expire and there is no invalidation path; a revoked grant persists until
// restart. Failed checks are not cached, so a transient backend outage never
// pins a principal to denied.
type Cache struct {
	mu      sync.RWMutex
	granted map[string]bool
	check   CheckFunc
	log     zerolog.Logger
}

// NewCache builds a cache backed by the given check function.
func NewCache(check CheckFunc, log zerolog.Logger) *Cache {
	return &Cache{
		granted: make(map[string]bool),
		check:   check,
		log:     log,
	}
}

// IsAuthorized reports whether the principal holds admin rights, consulting
// the backend on first sight of a principal. Backend failure fails closed.
func (c *Cache) IsAuthorized(ctx context.Context, principal string) bool {
	c.mu.RLock()
	cached, ok := c.granted[principal]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	isAdmin, err := c.check(ctx, principal)
	if err != nil {
		c.log.Error().Err(err).Str("principal", principal).Msg("admin status check failed")
		return false
	}

	c.mu.Lock()
	c.granted[principal] = isAdmin
	c.mu.Unlock()

	c.log.Info().Str("principal", principal).Bool("is_admin", isAdmin).Msg("admin status resolved")
	return isAdmin
}
