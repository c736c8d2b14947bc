package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/davidortiz-dev/portfolio_api/middleware"
	"github.com/davidortiz-dev/portfolio_api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.StorageService{},
		&services.RedisService{},
		&services.SanitizeService{},
		&services.RateLimitService{},
		&services.EmailService{},
		&services.OpenRouterService{},
		&services.PaymentService{},

		&services.ContactService{},
		&services.ChatService{},
		&services.AnalyticsService{},

		&middleware.AdminAuthMiddleware{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	if err = ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service context exited")
		return
	}
}
