package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestIsAuthorizedCachesResult(t *testing.T) {
	calls := 0
	cache := NewCache(func(ctx context.Context, principal string) (bool, error) {
		calls++
		return true, nil
	}, zerolog.Nop())

	assert.True(t, cache.IsAuthorized(context.Background(), "alice"))
	assert.True(t, cache.IsAuthorized(context.Background(), "alice"))
	assert.Equal(t, 1, calls)
}

func TestIsAuthorizedCachesDenial(t *testing.T) {
	calls := 0
	cache := NewCache(func(ctx context.Context, principal string) (bool, error) {
		calls++
		return false, nil
	}, zerolog.Nop())

	assert.False(t, cache.IsAuthorized(context.Background(), "bob"))
	assert.False(t, cache.IsAuthorized(context.Background(), "bob"))
	assert.Equal(t, 1, calls)
}

func TestBackendFailureIsNotCached(t *testing.T) {
	calls := 0
	cache := NewCache(func(ctx context.Context, principal string) (bool, error) {
		calls++
		if calls == 1 {
			return false, errors.New("backend unreachable")
		}
		return true, nil
	}, zerolog.Nop())

	// First call fails closed but leaves no cache entry behind.
	assert.False(t, cache.IsAuthorized(context.Background(), "carol"))
	// Second call retries the backend and caches the grant.
	assert.True(t, cache.IsAuthorized(context.Background(), "carol"))
	assert.True(t, cache.IsAuthorized(context.Background(), "carol"))
	assert.Equal(t, 2, calls)
}

func TestPrincipalsAreIndependent(t *testing.T) {
	cache := NewCache(func(ctx context.Context, principal string) (bool, error) {
		return principal == "admin", nil
	}, zerolog.Nop())

	assert.True(t, cache.IsAuthorized(context.Background(), "admin"))
	assert.False(t, cache.IsAuthorized(context.Background(), "guest"))
}
