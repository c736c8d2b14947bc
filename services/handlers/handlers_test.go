package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

// newTestApp mirrors the API server's error mapping so handler errors
// surface with their intended status codes.
func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, nil)
			}
			return shared.ResponseInternalError(c, nil)
		},
	})
}

func postJSON(t *testing.T, app *fiber.App, path, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("POST", path, bytes.NewReader([]byte(body)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, shared.JSONAPI.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// ==================== FAKES ====================

type fakeContactService struct {
	lastReq       dto.ContactRequest
	lastClientIP  string
	lastUserAgent string
}

func (f *fakeContactService) Submit(req dto.ContactRequest, clientIP, userAgent string) (*dto.ContactResponse, error) {
	f.lastReq = req
	f.lastClientIP = clientIP
	f.lastUserAgent = userAgent
	return &dto.ContactResponse{
		Success:      true,
		Message:      "Thank you for your message!",
		SubmissionID: "sub-123",
		Timestamp:    time.Now(),
	}, nil
}

type fakeChatService struct {
	chatErr error
}

func (f *fakeChatService) Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &dto.ChatResponse{
		Success:      true,
		Response:     "Happy to help.",
		Model:        "meta-llama/llama-3.1-8b-instruct",
		ResponseTime: 250,
		Timestamp:    time.Now(),
	}, nil
}

func (f *fakeChatService) LogTranscript(req dto.ChatLogRequest, responseTime time.Duration) (*dto.ChatLogResponse, error) {
	return &dto.ChatLogResponse{Success: true, LogID: "log-1", Redacted: true, Timestamp: time.Now()}, nil
}

type fakeAnalyticsService struct {
	lastEvents []dto.AnalyticsEvent
}

func (f *fakeAnalyticsService) Ingest(events []dto.AnalyticsEvent) (*dto.AnalyticsResponse, error) {
	f.lastEvents = events
	return &dto.AnalyticsResponse{Success: true, Processed: len(events), Stored: len(events), Timestamp: time.Now()}, nil
}

type fakePaymentService struct {
	checkoutErr error
	webhookErr  error
}

func (f *fakePaymentService) Enabled() bool { return true }

func (f *fakePaymentService) CreateCheckout(req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &dto.CheckoutResponse{URL: "https://checkout.stripe.com/c/pay/cs_test_1", SessionID: "cs_test_1"}, nil
}

func (f *fakePaymentService) HandleWebhook(payload []byte, signature string) (*dto.WebhookAck, error) {
	if f.webhookErr != nil {
		return nil, f.webhookErr
	}
	return &dto.WebhookAck{Received: true, EventID: "evt_1", EventType: "checkout.session.completed"}, nil
}

// ==================== CONTACT ====================

func TestContactSubmitSuccess(t *testing.T) {
	svc := &fakeContactService{}
	app := newTestApp()
	app.Post("/contact", NewContactHandler(svc).Submit)

	status, body := postJSON(t, app, "/contact", `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"message": "I'd like to discuss a consulting engagement."
	}`, map[string]string{"X-Forwarded-For": "198.51.100.9", "User-Agent": "test-agent"})

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "sub-123", body["submissionId"])
	assert.Equal(t, "198.51.100.9", svc.lastClientIP)
	assert.Equal(t, "test-agent", svc.lastUserAgent)
}

func TestContactSubmitValidationErrors(t *testing.T) {
	app := newTestApp()
	app.Post("/contact", NewContactHandler(&fakeContactService{}).Submit)

	status, body := postJSON(t, app, "/contact", `{
		"name": "A",
		"email": "not-an-email",
		"message": "short"
	}`, nil)

	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])

	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, errs, 3)
	assert.Equal(t, "Invalid email format", errs["email"])
}

func TestContactSubmitMalformedBody(t *testing.T) {
	app := newTestApp()
	app.Post("/contact", NewContactHandler(&fakeContactService{}).Submit)

	status, _ := postJSON(t, app, "/contact", `{"name": `, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

// ==================== CHAT ====================

func TestChatSuccess(t *testing.T) {
	app := newTestApp()
	app.Post("/chat", NewChatHandler(&fakeChatService{}).Chat)

	status, body := postJSON(t, app, "/chat", `{
		"message": "What's your experience with Go?",
		"sessionId": "session-12345"
	}`, nil)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Happy to help.", body["response"])
	assert.NotEmpty(t, body["model"])
}

func TestChatUpstreamFailure(t *testing.T) {
	svc := &fakeChatService{chatErr: shared.NewUpstreamError(assert.AnError, "Assistant is unavailable")}
	app := newTestApp()
	app.Post("/chat", NewChatHandler(svc).Chat)

	status, body := postJSON(t, app, "/chat", `{
		"message": "hello there",
		"sessionId": "session-12345"
	}`, nil)

	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "Assistant is unavailable", body["message"])
}

func TestChatLogSuccess(t *testing.T) {
	app := newTestApp()
	app.Post("/chat/log", NewChatHandler(&fakeChatService{}).Log)

	status, body := postJSON(t, app, "/chat/log", `{
		"query": "what do you charge?",
		"response": "It depends on scope.",
		"sessionId": "session-12345",
		"model": "meta-llama/llama-3.1-8b-instruct"
	}`, nil)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["redacted"])
	assert.Equal(t, "log-1", body["logId"])
}

func TestChatLogValidationErrors(t *testing.T) {
	app := newTestApp()
	app.Post("/chat/log", NewChatHandler(&fakeChatService{}).Log)

	status, body := postJSON(t, app, "/chat/log", `{"query": "hi"}`, nil)

	require.Equal(t, fiber.StatusBadRequest, status)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "response")
	assert.Contains(t, errs, "sessionId")
	assert.Contains(t, errs, "model")
}

// ==================== ANALYTICS ====================

func TestAnalyticsIngestBatch(t *testing.T) {
	svc := &fakeAnalyticsService{}
	app := newTestApp()
	app.Post("/analytics", NewAnalyticsHandler(svc).Ingest)

	status, body := postJSON(t, app, "/analytics", `[
		{"event": "page_view", "timestamp": 1717243800000, "sessionId": "session-12345", "page": "/"},
		{"event": "cta_click", "timestamp": 1717243801000, "sessionId": "session-12345", "page": "/contact"}
	]`, nil)

	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, body["processed"])
	assert.Len(t, svc.lastEvents, 2)
}

func TestAnalyticsIngestSingleEvent(t *testing.T) {
	svc := &fakeAnalyticsService{}
	app := newTestApp()
	app.Post("/analytics", NewAnalyticsHandler(svc).Ingest)

	status, _ := postJSON(t, app, "/analytics", `{
		"event": "page_view", "timestamp": 1717243800000, "sessionId": "session-12345"
	}`, nil)

	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, svc.lastEvents, 1)
	assert.Equal(t, "page_view", svc.lastEvents[0].Event)
}

// ==================== TIPS ====================

func TestTipsCheckoutSuccess(t *testing.T) {
	app := newTestApp()
	app.Post("/tips/checkout", NewTipsHandler(&fakePaymentService{}).Checkout)

	status, body := postJSON(t, app, "/tips/checkout", `{"amount": 10}`, nil)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "cs_test_1", body["sessionId"])
	assert.Contains(t, body["url"], "checkout.stripe.com")
}

func TestTipsCheckoutAmountMessages(t *testing.T) {
	app := newTestApp()
	app.Post("/tips/checkout", NewTipsHandler(&fakePaymentService{}).Checkout)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"below minimum", `{"amount": 0.5}`, "Minimum amount is $1"},
		{"above maximum", `{"amount": 10001}`, "Maximum amount is $10,000"},
		{"missing", `{}`, "amount is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/tips/checkout", tt.body, nil)
			require.Equal(t, fiber.StatusBadRequest, status)
			errs, ok := body["errors"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.want, errs["amount"])
		})
	}
}

func TestTipsCheckoutUnavailable(t *testing.T) {
	svc := &fakePaymentService{checkoutErr: shared.NewServiceUnavailableError(nil, "Tips are not available right now")}
	app := newTestApp()
	app.Post("/tips/checkout", NewTipsHandler(svc).Checkout)

	status, body := postJSON(t, app, "/tips/checkout", `{"amount": 5}`, nil)

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "Tips are not available right now", body["message"])
}

// ==================== WEBHOOK ====================

func TestWebhookMissingSignature(t *testing.T) {
	app := newTestApp()
	app.Post("/webhooks/stripe", NewWebhookHandler(&fakePaymentService{}).Stripe)

	status, _ := postJSON(t, app, "/webhooks/stripe", `{"id": "evt_1"}`, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestWebhookBadSignature(t *testing.T) {
	svc := &fakePaymentService{webhookErr: shared.NewUnauthorizedError(assert.AnError, "Invalid webhook signature")}
	app := newTestApp()
	app.Post("/webhooks/stripe", NewWebhookHandler(svc).Stripe)

	status, _ := postJSON(t, app, "/webhooks/stripe", `{"id": "evt_1"}`,
		map[string]string{"Stripe-Signature": "t=1,v1=bad"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestWebhookAck(t *testing.T) {
	app := newTestApp()
	app.Post("/webhooks/stripe", NewWebhookHandler(&fakePaymentService{}).Stripe)

	status, body := postJSON(t, app, "/webhooks/stripe", `{"id": "evt_1"}`,
		map[string]string{"Stripe-Signature": "t=1,v1=good"})

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["received"])
	assert.Equal(t, "evt_1", body["eventId"])
}
