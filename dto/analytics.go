package dto

import (
	"strings"
	"time"
)

// AnalyticsEvent is one telemetry item. Timestamp is client-supplied epoch
// milliseconds; the server attaches its own receive time on storage.
type AnalyticsEvent struct {
	Event      string                 `json:"event" validate:"required,min=1,max=100"`
	Timestamp  int64                  `json:"timestamp" validate:"required,gt=0"`
	SessionID  string                 `json:"sessionId" validate:"required,min=8,max=100"`
	Page       string                 `json:"page" validate:"omitempty,max=500"`
	Properties map[string]interface{} `json:"properties"`
}

func (e *AnalyticsEvent) Normalize() {
	e.Event = strings.TrimSpace(e.Event)
	e.SessionID = strings.TrimSpace(e.SessionID)
	e.Page = strings.TrimSpace(e.Page)
}

func (e *AnalyticsEvent) Validate() error {
	e.Normalize()
	return GetValidator().Struct(e)
}

type AnalyticsResponse struct {
	Success   bool      `json:"success"`
	Processed int       `json:"processed"`
	Stored    int       `json:"stored"`
	Timestamp time.Time `json:"timestamp"`
}
