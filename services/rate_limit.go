package services

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

// RateLimitService admits or rejects requests per client key. Buckets are
// sliding-window timestamp logs held in process memory; a background sweep
// evicts idle keys. State is per instance, so horizontally scaled
// deployments need a shared store (e.g. redis) in front of this.
type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	buckets map[string]*bucket
	mutex   sync.Mutex

	sessions     *sessionLimiterStore
	sweepEvery   time.Duration
	bucketMaxAge time.Duration

	now  func() time.Time
	stop chan struct{}
}

// RateLimitConfig represents rate limiting configuration for one endpoint type.
type RateLimitConfig struct {
	EndpointType string        `json:"endpoint_type"`
	MaxRequests  int           `json:"max_requests"`
	WindowSize   time.Duration `json:"window_size"`
	Description  string        `json:"description"`
	IsActive     bool          `json:"is_active"`
}

type bucket struct {
	timestamps []time.Time
	lastSeen   time.Time
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	svc.buckets = make(map[string]*bucket)
	svc.sessions = newSessionLimiterStore(chatSessionRate, chatSessionBurst)
	svc.sweepEvery = 5 * time.Minute
	svc.bucketMaxAge = time.Hour
	svc.now = time.Now
	svc.stop = make(chan struct{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.initDefaultConfigs()

	go svc.startSweepJob()

	return nil
}

func (svc *RateLimitService) Shutdown() {
	close(svc.stop)
}

// ==================== CONFIGURATION ====================

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		shared.EndpointContact: {
			EndpointType: shared.EndpointContact,
			MaxRequests:  5,
			WindowSize:   time.Hour,
			Description:  "Contact form submissions per IP",
			IsActive:     true,
		},
		shared.EndpointChat: {
			EndpointType: shared.EndpointChat,
			MaxRequests:  20,
			WindowSize:   time.Minute,
			Description:  "Chat messages per session",
			IsActive:     true,
		},
		shared.EndpointChatLog: {
			EndpointType: shared.EndpointChatLog,
			MaxRequests:  30,
			WindowSize:   time.Minute,
			Description:  "Chat transcript log writes per session",
			IsActive:     true,
		},
		shared.EndpointAnalytics: {
			EndpointType: shared.EndpointAnalytics,
			MaxRequests:  60,
			WindowSize:   time.Minute,
			Description:  "Analytics event batches per IP",
			IsActive:     true,
		},
		shared.EndpointTipCheckout: {
			EndpointType: shared.EndpointTipCheckout,
			MaxRequests:  10,
			WindowSize:   time.Hour,
			Description:  "Tip checkout sessions per IP",
			IsActive:     true,
		},
		shared.EndpointAPIGeneral: {
			EndpointType: shared.EndpointAPIGeneral,
			MaxRequests:  1000,
			WindowSize:   time.Hour,
			Description:  "General API rate limit per IP",
			IsActive:     true,
		},
	}
}

// ==================== CORE ADMISSION LOGIC ====================

// Check decides whether one more request from identifier is admitted under
// the named endpoint type. Capacity is inclusive: a key exactly at capacity
// is rejected. Check never fails; unknown keys start a fresh bucket.
func (svc *RateLimitService) Check(identifier, endpointType string) dto.RateLimitDecision {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	config, exists := svc.configs[endpointType]
	if !exists || !config.IsActive {
		return dto.RateLimitDecision{Allowed: true, Remaining: -1}
	}

	now := svc.now()
	key := identifier + ":" + endpointType

	b, ok := svc.buckets[key]
	if !ok {
		b = &bucket{}
		svc.buckets[key] = b
	}
	b.lastSeen = now

	// Drop timestamps that slid out of the trailing window.
	cutoff := now.Add(-config.WindowSize)
	kept := b.timestamps[:0]
	for _, ts := range b.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	b.timestamps = kept

	if len(b.timestamps) >= config.MaxRequests {
		oldest := b.timestamps[0]
		resetTime := oldest.Add(config.WindowSize)
		return dto.RateLimitDecision{
			Allowed:    false,
			Remaining:  0,
			ResetTime:  resetTime,
			RetryAfter: retryAfterSeconds(now, resetTime),
		}
	}

	b.timestamps = append(b.timestamps, now)

	return dto.RateLimitDecision{
		Allowed:   true,
		Remaining: config.MaxRequests - len(b.timestamps),
		ResetTime: b.timestamps[0].Add(config.WindowSize),
	}
}

// retryAfterSeconds is the ceiling of the time until one slot frees,
// floored at one second so clients never receive Retry-After: 0.
func retryAfterSeconds(now, resetTime time.Time) int {
	secs := int(math.Ceil(resetTime.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// ==================== MIDDLEWARE ====================

// Limit builds a fiber middleware admitting requests under the given
// endpoint type. The client key is the session id for chat endpoints and
// the client IP otherwise.
func (svc *RateLimitService) Limit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := svc.getIdentifier(c, endpointType)

		decision := svc.Check(identifier, endpointType)

		addRateLimitHeaders(c, decision)

		if !decision.Allowed {
			rateLimitRejectedTotal.WithLabelValues(endpointType).Inc()
			return svc.handleRateLimitExceeded(c, endpointType, decision)
		}

		return c.Next()
	}
}

// ChatSessionLimit throttles per-session chat traffic through a token
// bucket, smoothing bursts that the hourly sliding window alone would admit.
func (svc *RateLimitService) ChatSessionLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := getSessionIDFromRequest(c)
		if sessionID == "" {
			sessionID = shared.GetClientIP(c)
		}

		allowed, retryAfter := svc.sessions.Allow(sessionID, svc.now())
		if !allowed {
			rateLimitRejectedTotal.WithLabelValues(shared.EndpointChat).Inc()
			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Set("Retry-After", strconv.Itoa(secs))
			return shared.ResponseJSON(c, http.StatusTooManyRequests,
				"You're sending messages too quickly. Please slow down.",
				fiber.Map{"retryAfter": secs})
		}

		return c.Next()
	}
}

func (svc *RateLimitService) getIdentifier(c *fiber.Ctx, endpointType string) string {
	switch endpointType {
	case shared.EndpointChat, shared.EndpointChatLog:
		if sessionID := getSessionIDFromRequest(c); sessionID != "" {
			return sessionID
		}
		return shared.GetClientIP(c)
	default:
		return shared.GetClientIP(c)
	}
}

func addRateLimitHeaders(c *fiber.Ctx, decision dto.RateLimitDecision) {
	if decision.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetTime.IsZero() {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetTime.Unix(), 10))
	}
}

func (svc *RateLimitService) handleRateLimitExceeded(c *fiber.Ctx, endpointType string, decision dto.RateLimitDecision) error {
	message := rateLimitMessage(endpointType)

	c.Set("Retry-After", strconv.Itoa(decision.RetryAfter))

	return shared.ResponseJSON(c, http.StatusTooManyRequests, message, fiber.Map{
		"error":      "Rate limit exceeded",
		"retryAfter": decision.RetryAfter,
	})
}

func rateLimitMessage(endpointType string) string {
	messages := map[string]string{
		shared.EndpointContact:     "Too many contact submissions. Please try again later.",
		shared.EndpointChat:        "Too many chat messages. Please slow down.",
		shared.EndpointChatLog:     "Too many log writes. Please slow down.",
		shared.EndpointAnalytics:   "Too many analytics events. Please slow down.",
		shared.EndpointTipCheckout: "Too many checkout attempts. Please try again later.",
		shared.EndpointAPIGeneral:  "Too many requests. Please slow down.",
	}

	if message, exists := messages[endpointType]; exists {
		return message
	}
	return "Too many requests. Please try again later."
}

// ==================== UTILITY FUNCTIONS ====================

func getSessionIDFromRequest(c *fiber.Ctx) string {
	var reqBody struct {
		SessionID string `json:"sessionId"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&reqBody); err == nil {
			return strings.TrimSpace(reqBody.SessionID)
		}
	}
	return ""
}

// ==================== ADMIN FUNCTIONS ====================

func (svc *RateLimitService) GetRateLimitStats() fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc.mutex.Lock()
		configs := make(map[string]RateLimitConfig, len(svc.configs))
		for k, v := range svc.configs {
			configs[k] = *v
		}
		trackedKeys := len(svc.buckets)
		svc.mutex.Unlock()

		stats := fiber.Map{
			"configs":          configs,
			"tracked_keys":     trackedKeys,
			"tracked_sessions": svc.sessions.Len(),
			"timestamp":        svc.now(),
		}

		return shared.ResponseJSON(c, http.StatusOK, "Rate limit statistics", stats)
	}
}

func (svc *RateLimitService) UpdateConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		endpointType := c.Params("endpointType")

		var req dto.RateLimitConfigUpdate
		if err := c.BodyParser(&req); err != nil {
			return shared.NewBadRequestError(err, "Invalid request body")
		}

		svc.mutex.Lock()
		config, exists := svc.configs[endpointType]
		if !exists {
			svc.mutex.Unlock()
			return shared.ResponseJSON(c, http.StatusNotFound, "Endpoint type not found", nil)
		}

		if req.MaxRequests > 0 {
			config.MaxRequests = req.MaxRequests
		}
		if req.WindowSize != "" {
			if duration, err := time.ParseDuration(req.WindowSize); err == nil {
				config.WindowSize = duration
			}
		}
		if req.IsActive != nil {
			config.IsActive = *req.IsActive
		}
		updated := *config
		svc.mutex.Unlock()

		return shared.ResponseJSON(c, http.StatusOK, "Configuration updated successfully", updated)
	}
}

func (svc *RateLimitService) RemoveRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")
		endpointType := c.Params("endpointType")

		if identifier == "" || endpointType == "" {
			return shared.ResponseJSON(c, http.StatusBadRequest, "Missing identifier or endpoint type", nil)
		}

		svc.ResetRateLimit(identifier, endpointType)

		message := fmt.Sprintf("Rate limit removed for %s/%s", identifier, endpointType)
		return shared.ResponseJSON(c, http.StatusOK, message, nil)
	}
}

func (svc *RateLimitService) CleanupRateLimits() fiber.Handler {
	return func(c *fiber.Ctx) error {
		removed := svc.sweep()
		return shared.ResponseJSON(c, http.StatusOK, "Rate limits cleaned up successfully", fiber.Map{
			"removed": removed,
		})
	}
}

// ==================== PUBLIC METHODS ====================

func (svc *RateLimitService) ResetRateLimit(identifier, endpointType string) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	delete(svc.buckets, identifier+":"+endpointType)
}

// ==================== BACKGROUND JOBS ====================

// sweep evicts buckets untouched for longer than bucketMaxAge, bounding
// memory growth from one-off clients. Returns how many were removed.
func (svc *RateLimitService) sweep() int {
	now := svc.now()
	cutoff := now.Add(-svc.bucketMaxAge)

	svc.mutex.Lock()
	removed := 0
	for key, b := range svc.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(svc.buckets, key)
			removed++
		}
	}
	svc.mutex.Unlock()

	removed += svc.sessions.Sweep(now)
	return removed
}

func (svc *RateLimitService) startSweepJob() {
	ticker := time.NewTicker(svc.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := svc.sweep(); removed > 0 {
				log.WithField("removed", removed).Debug("Rate limit sweep completed")
			}
		case <-svc.stop:
			return
		}
	}
}
