package model

import "time"

// ContactSubmission is a stored contact-form entry. Rows expire after
// SubmissionTTL and are removed by the storage sweep.
type ContactSubmission struct {
	ID        string `gorm:"primaryKey;type:text;not null"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:255;not null;index"`
	Subject   string `gorm:"size:200"`
	Message   string `gorm:"type:text;not null"`
	ClientIP  string `gorm:"size:64"`
	UserAgent string `gorm:"size:512"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}
