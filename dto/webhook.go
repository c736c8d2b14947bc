package dto

import "time"

type WebhookAck struct {
	Received  bool      `json:"received"`
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
}
