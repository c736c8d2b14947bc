package model

import "time"

// Tip tracks a checkout session through the payment gateway. Status moves
// pending -> completed/failed as webhook events arrive.
type Tip struct {
	ID                string `gorm:"primaryKey;type:text;not null"`
	CheckoutSessionID string `gorm:"size:255;uniqueIndex"`
	AmountCents       int64  `gorm:"not null"`
	Currency          string `gorm:"size:8;not null;default:usd"`
	Message           string `gorm:"size:500"`
	Status            string `gorm:"size:32;not null;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const (
	TipStatusPending   = "pending"
	TipStatusCompleted = "completed"
	TipStatusFailed    = "failed"
)
