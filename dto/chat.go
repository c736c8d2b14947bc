package dto

import (
	"strings"
	"time"
)

type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=2000"`
}

type ChatRequest struct {
	Message   string     `json:"message" validate:"required,min=1,max=2000"`
	SessionID string     `json:"sessionId" validate:"required,min=8,max=100"`
	History   []ChatTurn `json:"history" validate:"omitempty,max=20,dive"`
}

func (c *ChatRequest) Normalize() {
	c.Message = strings.TrimSpace(c.Message)
	c.SessionID = strings.TrimSpace(c.SessionID)
	for i := range c.History {
		c.History[i].Content = strings.TrimSpace(c.History[i].Content)
	}
}

func (c *ChatRequest) Validate() error {
	c.Normalize()
	return GetValidator().Struct(c)
}

type ChatResponse struct {
	Success      bool      `json:"success"`
	Response     string    `json:"response"`
	Model        string    `json:"model"`
	ResponseTime int64     `json:"responseTime"` // milliseconds
	Timestamp    time.Time `json:"timestamp"`
}

type ChatLogRequest struct {
	Query     string `json:"query" validate:"required,max=4000"`
	Response  string `json:"response" validate:"required,max=8000"`
	SessionID string `json:"sessionId" validate:"required,min=8,max=100"`
	Model     string `json:"model" validate:"required,max=100"`
}

func (c *ChatLogRequest) Normalize() {
	c.Query = strings.TrimSpace(c.Query)
	c.Response = strings.TrimSpace(c.Response)
	c.SessionID = strings.TrimSpace(c.SessionID)
	c.Model = strings.TrimSpace(c.Model)
}

func (c *ChatLogRequest) Validate() error {
	c.Normalize()
	return GetValidator().Struct(c)
}

type ChatLogResponse struct {
	Success   bool      `json:"success"`
	LogID     string    `json:"logId"`
	Redacted  bool      `json:"redacted"`
	Timestamp time.Time `json:"timestamp"`
}
