package model

import "time"

// ChatLog is a stored chat transcript entry. Query and Response are the
// redacted forms; the raw text is never persisted.
type ChatLog struct {
	ID           string `gorm:"primaryKey;type:text;not null"`
	SessionID    string `gorm:"size:100;not null;index"`
	Query        string `gorm:"type:text;not null"`
	Response     string `gorm:"type:text;not null"`
	Model        string `gorm:"size:100"`
	Redacted     bool   `gorm:"not null;default:false"`
	ResponseTime int64  // milliseconds, 0 when unknown
	CreatedAt    time.Time
	ExpiresAt    time.Time `gorm:"index"`
}
