package middleware

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/davidortiz-dev/portfolio_api/shared"
)

// AdminAuthMiddleware guards the rate-limit admin surface with a static
// API key, stored as a bcrypt hash so the plaintext never lives in config.
// When no hash is configured the admin routes are effectively disabled.
type AdminAuthMiddleware struct {
	context.DefaultService

	keyHash []byte
}

const ADMIN_AUTH_MIDDLEWARE_SVC = "admin_auth"

func (svc AdminAuthMiddleware) Id() string {
	return ADMIN_AUTH_MIDDLEWARE_SVC
}

func (svc *AdminAuthMiddleware) Configure(ctx *context.Context) error {
	if hash := os.Getenv("ADMIN_API_KEY_HASH"); hash != "" {
		svc.keyHash = []byte(hash)
	} else {
		log.Warn("ADMIN_API_KEY_HASH not set, admin endpoints disabled")
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *AdminAuthMiddleware) Start() error {
	return nil
}

func (svc *AdminAuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(svc.keyHash) == 0 {
			return shared.ResponseUnauthorized(c)
		}

		key := c.Get("X-Admin-Key")
		if key == "" {
			return shared.ResponseUnauthorized(c)
		}

		if err := bcrypt.CompareHashAndPassword(svc.keyHash, []byte(key)); err != nil {
			return shared.ResponseUnauthorized(c)
		}

		return c.Next()
	}
}
