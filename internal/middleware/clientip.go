package middleware

// clientip.go resolves the network address a request is attributed to and
// stores it in the echo context. Precedence: the first X-Forwarded-For
// entry, then X-Real-IP, then the transport peer address, then a guess of
// the host's own LAN address. Trusting the headers over the peer address is
// only safe behind a trusted reverse proxy; that is a deployment
// precondition, not something enforced here.

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/utils"
)

const clientIPKey = "client_ip"

// ResolveClientIP stores the resolved address under "client_ip" for
// downstream middleware and handlers. Registered globally so the address is
// resolved exactly once per request.
func ResolveClientIP(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(clientIPKey, resolveIP(c.Request()))
		return next(c)
	}
}

// ClientIP returns the address stored by ResolveClientIP, resolving
// directly when the middleware did not run.
func ClientIP(c echo.Context) string {
	if v, ok := c.Get(clientIPKey).(string); ok && v != "" {
		return v
	}
	return resolveIP(c.Request())
}

func resolveIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return strings.TrimSpace(rip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	// Mapped-IPv4 peers ("::ffff:10.0.0.5") are normalized here so the gate
	// can stay a plain string comparison.
	host = strings.TrimPrefix(host, "::ffff:")
	if host != "" && host != "127.0.0.1" && host != "::1" {
		return host
	}
	// A loopback peer is this machine; its LAN address is what an admin
	// would actually allowlist.
	return utils.RealLocalIP()
}
