package shared

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetClientIP resolves the caller's address behind proxies and CDNs.
// Falls back to UnknownIdentifier when nothing is derivable, so anonymous
// traffic still lands in a rate-limit bucket.
func GetClientIP(c *fiber.Ctx) string {
	// Check for forwarded IP first (for load balancers/proxies)
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if ip != "" {
				return ip
			}
		}
	}

	realIP := c.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	cfIP := c.Get("CF-Connecting-IP")
	if cfIP != "" {
		return cfIP
	}

	remote := c.Context().RemoteAddr().String()
	ip, _, err := net.SplitHostPort(remote)
	if err != nil {
		ip = remote
	}
	if ip == "" {
		return UnknownIdentifier
	}
	return ip
}
