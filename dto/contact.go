package dto

import (
	"strings"
	"time"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// Normalize trims all string fields so empty-after-trim counts as missing
// and length checks apply to the meaningful content.
func (c *ContactRequest) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Message = strings.TrimSpace(c.Message)
}

func (c *ContactRequest) Validate() error {
	c.Normalize()
	return GetValidator().Struct(c)
}

type ContactResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	SubmissionID string    `json:"submissionId"`
	Timestamp    time.Time `json:"timestamp"`
}
