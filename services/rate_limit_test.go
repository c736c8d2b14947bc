package services

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidortiz-dev/portfolio_api/shared"
)

func newTestRateLimitService(now *time.Time) *RateLimitService {
	svc := &RateLimitService{
		buckets:      make(map[string]*bucket),
		sessions:     newSessionLimiterStore(chatSessionRate, chatSessionBurst),
		bucketMaxAge: time.Hour,
		now:          func() time.Time { return *now },
		stop:         make(chan struct{}),
	}
	svc.initDefaultConfigs()
	return svc
}

func TestCheckAllowsUpToCapacity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestRateLimitService(&now)

	for i := 0; i < 5; i++ {
		decision := svc.Check("203.0.113.5", shared.EndpointContact)
		require.True(t, decision.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 4-i, decision.Remaining)
	}

	// Capacity is inclusive: the 6th request within the window is rejected.
	decision := svc.Check("203.0.113.5", shared.EndpointContact)
	require.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.GreaterOrEqual(t, decision.RetryAfter, 1)
}

func TestCheckWindowSlides(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestRateLimitService(&now)

	for i := 0; i < 5; i++ {
		require.True(t, svc.Check("10.0.0.1", shared.EndpointContact).Allowed)
		now = now.Add(10 * time.Minute)
	}

	require.False(t, svc.Check("10.0.0.1", shared.EndpointContact).Allowed)

	// Advance until only the first request falls outside the one hour
	// window: exactly one slot frees up.
	now = now.Add(10*time.Minute + time.Second)
	require.True(t, svc.Check("10.0.0.1", shared.EndpointContact).Allowed)
	require.False(t, svc.Check("10.0.0.1", shared.EndpointContact).Allowed)
}

func TestRetryAfterDecreasesMonotonically(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestRateLimitService(&now)

	for i := 0; i < 5; i++ {
		require.True(t, svc.Check("10.0.0.2", shared.EndpointContact).Allowed)
	}

	previous := svc.Check("10.0.0.2", shared.EndpointContact).RetryAfter
	require.GreaterOrEqual(t, previous, 1)

	for i := 0; i < 10; i++ {
		now = now.Add(5 * time.Minute)
		decision := svc.Check("10.0.0.2", shared.EndpointContact)
		if decision.Allowed {
			break
		}
		assert.GreaterOrEqual(t, decision.RetryAfter, 1)
		assert.LessOrEqual(t, decision.RetryAfter, previous)
		previous = decision.RetryAfter
	}
}

func TestCheckKeysAreIndependent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestRateLimitService(&now)

	for i := 0; i < 5; i++ {
		require.True(t, svc.Check("1.1.1.1", shared.EndpointContact).Allowed)
	}
	require.False(t, svc.Check("1.1.1.1", shared.EndpointContact).Allowed)

	// Another key is unaffected.
	assert.True(t, svc.Check("2.2.2.2", shared.EndpointContact).Allowed)
}

func TestCheckUnknownEndpointTypeAllows(t *testing.T) {
	now := time.Now()
	svc := newTestRateLimitService(&now)

	decision := svc.Check("10.0.0.3", "nonexistent")
	assert.True(t, decision.Allowed)
	assert.Equal(t, -1, decision.Remaining)
}

func TestCheckInactiveConfigAllows(t *testing.T) {
	now := time.Now()
	svc := newTestRateLimitService(&now)
	svc.configs[shared.EndpointContact].IsActive = false

	for i := 0; i < 20; i++ {
		assert.True(t, svc.Check("10.0.0.4", shared.EndpointContact).Allowed)
	}
}

func TestSweepEvictsIdleBuckets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestRateLimitService(&now)

	svc.Check("old-client", shared.EndpointContact)
	now = now.Add(2 * time.Hour)
	svc.Check("fresh-client", shared.EndpointContact)

	removed := svc.sweep()
	assert.Equal(t, 1, removed)

	svc.mutex.Lock()
	_, oldExists := svc.buckets["old-client:"+shared.EndpointContact]
	_, freshExists := svc.buckets["fresh-client:"+shared.EndpointContact]
	svc.mutex.Unlock()
	assert.False(t, oldExists)
	assert.True(t, freshExists)
}

func TestResetRateLimitClearsBucket(t *testing.T) {
	now := time.Now()
	svc := newTestRateLimitService(&now)

	for i := 0; i < 5; i++ {
		svc.Check("10.0.0.5", shared.EndpointContact)
	}
	require.False(t, svc.Check("10.0.0.5", shared.EndpointContact).Allowed)

	svc.ResetRateLimit("10.0.0.5", shared.EndpointContact)
	assert.True(t, svc.Check("10.0.0.5", shared.EndpointContact).Allowed)
}

func TestSessionLimiterBurstThenReject(t *testing.T) {
	store := newSessionLimiterStore(chatSessionRate, chatSessionBurst)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < chatSessionBurst; i++ {
		allowed, _ := store.Allow("session-1", now)
		require.True(t, allowed, "burst request %d should be allowed", i+1)
	}

	allowed, retryAfter := store.Allow("session-1", now)
	require.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	// Tokens refill with time.
	allowed, _ = store.Allow("session-1", now.Add(10*time.Second))
	assert.True(t, allowed)
}

func TestSessionLimiterSweep(t *testing.T) {
	store := newSessionLimiterStore(chatSessionRate, chatSessionBurst)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store.Allow("stale", now)
	store.Allow("active", now.Add(20*time.Minute))

	removed := store.Sweep(now.Add(20 * time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestLimitMiddlewareHeadersAndRejection(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestRateLimitService(&now)

	app := fiber.New()
	app.Post("/contact", svc.Limit(shared.EndpointContact), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/contact", nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.7")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, strconv.Itoa(4-i), resp.Header.Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Reset"))
	}

	req := httptest.NewRequest("POST", "/contact", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
}
