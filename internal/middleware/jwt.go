package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the subject, username and role claims into the request
// context. The provided secret must match the one used when issuing
// tokens. A missing, malformed or expired token yields 401, an
// authentication failure, distinct from the 403 the IP gate produces.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Reject any signing method other than HMAC.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set("user_id", claimUint64(claims["sub"]))
			c.Set("username", claimString(claims["username"]))
			c.Set("role", claimString(claims["role"]))
			return next(c)
		}
	}
}

// UserID returns the authenticated user's ID stored by JWTAuth, or 0.
func UserID(c echo.Context) uint64 {
	v, _ := c.Get("user_id").(uint64)
	return v
}

// Role returns the authenticated user's role stored by JWTAuth.
func Role(c echo.Context) string {
	v, _ := c.Get("role").(string)
	return v
}

// claimUint64 converts a numeric JWT claim; json decoding delivers numbers
// as float64.
func claimUint64(v interface{}) uint64 {
	switch t := v.(type) {
	case float64:
		return uint64(t)
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func claimString(v interface{}) string {
	s, _ := v.(string)
	return s
}
