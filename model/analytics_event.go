package model

import "time"

type AnalyticsEvent struct {
	ID         string `gorm:"primaryKey;type:text;not null"`
	Event      string `gorm:"size:100;not null;index"`
	SessionID  string `gorm:"size:100;not null;index"`
	Page       string `gorm:"size:500"`
	Properties string `gorm:"type:text"` // JSON-encoded client properties
	ClientTime time.Time
	CreatedAt  time.Time
	ExpiresAt  time.Time `gorm:"index"`
}
