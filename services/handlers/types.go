package handlers

import (
	"context"
	"time"

	"github.com/davidortiz-dev/portfolio_api/dto"
)

type ContactServiceInterface interface {
	Submit(req dto.ContactRequest, clientIP, userAgent string) (*dto.ContactResponse, error)
}

type ChatServiceInterface interface {
	Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
	LogTranscript(req dto.ChatLogRequest, responseTime time.Duration) (*dto.ChatLogResponse, error)
}

type AnalyticsServiceInterface interface {
	Ingest(events []dto.AnalyticsEvent) (*dto.AnalyticsResponse, error)
}

type PaymentServiceInterface interface {
	Enabled() bool
	CreateCheckout(req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleWebhook(payload []byte, signature string) (*dto.WebhookAck, error)
}
