package services

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/model"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

// PaymentService wraps the Stripe gateway: one-off tip checkouts plus the
// webhook that settles them.
type PaymentService struct {
	context.DefaultService

	stripe        *client.API
	webhookSecret string
	successURL    string
	cancelURL     string

	storageSvc *StorageService
}

const PAYMENT_SVC = "payment_svc"

func (svc PaymentService) Id() string {
	return PAYMENT_SVC
}

func (svc *PaymentService) Configure(ctx *context.Context) error {
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		svc.stripe = &client.API{}
		svc.stripe.Init(key, nil)
	}
	svc.webhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	baseURL := os.Getenv("SITE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	svc.successURL = baseURL + "/tip/thanks?session_id={CHECKOUT_SESSION_ID}"
	svc.cancelURL = baseURL + "/tip"

	return svc.DefaultService.Configure(ctx)
}

func (svc *PaymentService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)

	if svc.stripe == nil {
		log.Warn("STRIPE_SECRET_KEY not set, tip checkout disabled")
	}
	return nil
}

func (svc *PaymentService) Enabled() bool {
	return svc.stripe != nil
}

// ==================== CHECKOUT ====================

// CreateCheckout opens a Stripe checkout session for a tip. Amount is
// dollars; Stripe wants cents.
func (svc *PaymentService) CreateCheckout(req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if svc.stripe == nil {
		return nil, shared.NewServiceUnavailableError(nil, "Payments are not configured")
	}

	amountCents := int64(math.Round(req.Amount * 100))

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Tip for David"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(svc.successURL),
		CancelURL:  stripe.String(svc.cancelURL),
	}
	if req.Message != "" {
		params.AddMetadata("message", req.Message)
	}

	session, err := svc.stripe.CheckoutSessions.New(params)
	if err != nil {
		upstreamFailuresTotal.WithLabelValues("stripe").Inc()
		return nil, shared.NewUpstreamError(err, "Failed to create checkout session")
	}

	tip := &model.Tip{
		ID:                uuid.NewString(),
		CheckoutSessionID: session.ID,
		AmountCents:       amountCents,
		Currency:          string(stripe.CurrencyUSD),
		Message:           req.Message,
		Status:            model.TipStatusPending,
	}
	if err := svc.storageSvc.SaveTip(tip); err != nil {
		// The checkout session exists either way; the webhook will still
		// tell us how it went.
		log.WithError(err).WithField("checkout_session", session.ID).
			Error("Failed to record pending tip")
	}

	return &dto.CheckoutResponse{
		URL:       session.URL,
		SessionID: session.ID,
	}, nil
}

// ==================== WEBHOOK ====================

// HandleWebhook verifies the event signature and settles the matching tip.
// Unrecognized event types are acknowledged and ignored.
func (svc *PaymentService) HandleWebhook(payload []byte, signature string) (*dto.WebhookAck, error) {
	if svc.webhookSecret == "" {
		return nil, shared.NewServiceUnavailableError(nil, "Webhook secret not configured")
	}

	event, err := webhook.ConstructEvent(payload, signature, svc.webhookSecret)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid webhook signature")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		if err := svc.settleCheckout(&event, model.TipStatusCompleted); err != nil {
			return nil, err
		}
	case stripe.EventTypeCheckoutSessionExpired:
		if err := svc.settleCheckout(&event, model.TipStatusFailed); err != nil {
			return nil, err
		}
	case stripe.EventTypePaymentIntentPaymentFailed:
		log.WithField("event_id", event.ID).Info("Payment failed")
	default:
		log.WithFields(log.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Debug("Ignoring unhandled webhook event")
	}

	return &dto.WebhookAck{
		Received:  true,
		EventID:   event.ID,
		EventType: string(event.Type),
	}, nil
}

func (svc *PaymentService) settleCheckout(event *stripe.Event, status string) error {
	var session stripe.CheckoutSession
	if err := shared.JSONAPI.Unmarshal(event.Data.Raw, &session); err != nil {
		return shared.NewBadRequestError(err, "Malformed webhook payload")
	}
	if session.ID == "" {
		return shared.NewBadRequestError(errors.New("missing session id"), "Malformed webhook payload")
	}

	if err := svc.storageSvc.UpdateTipStatus(session.ID, status); err != nil {
		return fmt.Errorf("settle checkout %s: %w", session.ID, err)
	}

	log.WithFields(log.Fields{
		"checkout_session": session.ID,
		"status":           status,
	}).Info("Tip settled")
	return nil
}
