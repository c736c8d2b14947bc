package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/davidortiz-dev/portfolio_api/docs"
	"github.com/davidortiz-dev/portfolio_api/middleware"
	"github.com/davidortiz-dev/portfolio_api/services/handlers"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

// HttpService wires the gateway pipeline: CORS -> method -> rate limit ->
// validate -> sanitize -> delegate, one route per serverless endpoint of
// the original site.
type HttpService struct {
	context.DefaultService

	rateLimitSvc *RateLimitService
	adminAuth    *middleware.AdminAuthMiddleware

	contactHandler   *handlers.ContactHandler
	chatHandler      *handlers.ChatHandler
	analyticsHandler *handlers.AnalyticsHandler
	tipsHandler      *handlers.TipsHandler
	webhookHandler   *handlers.WebhookHandler

	port       int
	production bool
	app        *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}
	svc.production = os.Getenv("APP_ENV") == "production"

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.adminAuth = svc.Service(middleware.ADMIN_AUTH_MIDDLEWARE_SVC).(*middleware.AdminAuthMiddleware)

	svc.contactHandler = handlers.NewContactHandler(svc.Service(CONTACT_SVC).(*ContactService))
	svc.chatHandler = handlers.NewChatHandler(svc.Service(CHAT_SVC).(*ChatService))
	svc.analyticsHandler = handlers.NewAnalyticsHandler(svc.Service(ANALYTICS_SVC).(*AnalyticsService))
	paymentSvc := svc.Service(PAYMENT_SVC).(*PaymentService)
	svc.tipsHandler = handlers.NewTipsHandler(paymentSvc)
	svc.webhookHandler = handlers.NewWebhookHandler(paymentSvc)

	svc.app = fiber.New(fiber.Config{
		AppName:               "portfolio_api",
		DisableStartupMessage: svc.production,
		JSONEncoder:           shared.JSONAPI.Marshal,
		JSONDecoder:           shared.JSONAPI.Unmarshal,
		ErrorHandler:          svc.handleError,
	})

	svc.app.Use(recover.New())
	svc.app.Use(requestid.New())
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Stripe-Signature, X-Admin-Key",
	}))
	svc.app.Use(MonitoringMiddleware())

	svc.registerRoutes()

	log.WithField("port", svc.port).Info("HTTP server started")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.ShutdownWithTimeout(5 * time.Second)
	}
}

func (svc *HttpService) registerRoutes() {
	r := svc.app

	r.Get("/ping", svc.ping)
	r.Get("/swagger/*", swagger.HandlerDefault)

	rl := svc.rateLimitSvc

	v1 := r.Group("/api/v1", rl.Limit(shared.EndpointAPIGeneral))

	v1.Post("/contact", rl.Limit(shared.EndpointContact), svc.contactHandler.Submit)
	v1.Post("/chat", rl.Limit(shared.EndpointChat), rl.ChatSessionLimit(), svc.chatHandler.Chat)
	v1.Post("/chat/log", rl.Limit(shared.EndpointChatLog), svc.chatHandler.Log)
	v1.Post("/analytics", rl.Limit(shared.EndpointAnalytics), svc.analyticsHandler.Ingest)
	v1.Post("/tips/checkout", rl.Limit(shared.EndpointTipCheckout), svc.tipsHandler.Checkout)

	// Webhooks are signature-authenticated; the gateway's own limits would
	// only delay settlement retries.
	v1.Post("/webhooks/stripe", svc.webhookHandler.Stripe)

	admin := v1.Group("/admin", svc.adminAuth.Required())
	admin.Get("/ratelimits", rl.GetRateLimitStats())
	admin.Put("/ratelimits/:endpointType", rl.UpdateConfig())
	admin.Delete("/ratelimits/:identifier/:endpointType", rl.RemoveRateLimit())
	admin.Post("/ratelimits/cleanup", rl.CleanupRateLimits())

	r.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

// handleError maps the error taxonomy onto status codes: AppError carries
// its own status, fiber's routing errors pass through (405 gains the
// allowed-methods list), anything else is an unexpected 500. Internal
// detail reaches the client only outside production.
func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		data := appErr.Data
		if data == nil && !svc.production && appErr.Err != nil {
			data = appErr.Err.Error()
		}
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("Request failed")
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == http.StatusMethodNotAllowed {
			allowed := strings.Split(c.GetRespHeader(fiber.HeaderAllow), ", ")
			return shared.ResponseJSON(c, http.StatusMethodNotAllowed, "Method Not Allowed", fiber.Map{
				"allowed": allowed,
			})
		}
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithField("path", c.Path()).Error("Unhandled error")

	var detail interface{}
	if !svc.production {
		detail = err.Error()
	}
	return shared.ResponseJSON(c, http.StatusInternalServerError, "Internal Server Error", detail)
}
