package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/middleware"
	"attendance_backend/internal/utils"
)

// IP is an unauthenticated diagnostic that echoes the address the server
// attributes to the caller, alongside the host's own detected LAN address.
// Useful when figuring out what to put on an allowlist.
func IP(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"ip":               middleware.ClientIP(c),
		"detected_real_ip": utils.RealLocalIP(),
	})
}
