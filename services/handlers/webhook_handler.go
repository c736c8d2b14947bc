package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/davidortiz-dev/portfolio_api/shared"
)

type WebhookHandler struct {
	paymentSvc PaymentServiceInterface
}

func NewWebhookHandler(paymentSvc PaymentServiceInterface) *WebhookHandler {
	return &WebhookHandler{paymentSvc: paymentSvc}
}

// @Summary Stripe Webhook
// @Description Verifies and processes payment-gateway events
// @Tags webhooks
// @Accept  json
// @Produce json
// @Success 200 {object} dto.WebhookAck
// @Failure 401 {object} shared.Response
// @Router /api/v1/webhooks/stripe [post]
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return shared.ResponseUnauthorized(c)
	}

	ack, err := h.paymentSvc.HandleWebhook(c.Body(), signature)
	if err != nil {
		return err
	}

	ack.Timestamp = time.Now()
	return c.Status(fiber.StatusOK).JSON(ack)
}
