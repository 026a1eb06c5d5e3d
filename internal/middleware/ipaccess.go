package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/database"
	"attendance_backend/internal/repository"
	"attendance_backend/internal/service"
)

// RequireAllowedIP enforces the per-user address allowlist after JWTAuth
// has run. A denial echoes the resolved address and the full allowlist so
// an operator can diagnose a rejected check-in without querying the store.
func RequireAllowedIP(gate *service.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := gate.Authorize(c.Request().Context(), UserID(c), ClientIP(c))
			var denied *service.DeniedError
			switch {
			case err == nil:
				return next(c)
			case errors.As(err, &denied):
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":       fmt.Sprintf("access denied: IP %s is not authorized", denied.ClientIP),
					"client_ip":   denied.ClientIP,
					"allowed_ips": denied.AllowedIPs,
				})
			case errors.Is(err, repository.ErrNotFound):
				// The account was deleted after the token was issued; treat
				// it as an authorization failure, not a crash.
				return c.JSON(http.StatusForbidden, echo.Map{"error": "user no longer exists"})
			case errors.Is(err, database.ErrNotReady):
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store not ready"})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ip check failed"})
			}
		}
	}
}
