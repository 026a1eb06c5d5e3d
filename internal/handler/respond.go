package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/database"
)

// fail maps infrastructure errors to a response: a not-ready store becomes
// 503, anything else 500 with msg. Domain errors (not found, conflicts) are
// handled by each endpoint before reaching here.
func fail(c echo.Context, err error, msg string) error {
	if errors.Is(err, database.ErrNotReady) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store not ready"})
	}
	c.Logger().Errorf("%s: %v", msg, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}
