package dto

import "time"

// RateLimitDecision is the outcome of one admission check.
type RateLimitDecision struct {
	Allowed    bool      `json:"allowed"`
	Remaining  int       `json:"remaining"`
	ResetTime  time.Time `json:"reset_time"`
	RetryAfter int       `json:"retry_after"` // seconds, >= 1 when rejected
}

type RateLimitConfigUpdate struct {
	MaxRequests int    `json:"max_requests"`
	WindowSize  string `json:"window_size"` // e.g. "15m", "1h"
	IsActive    *bool  `json:"is_active"`
}
