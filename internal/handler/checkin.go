package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/middleware"
	"attendance_backend/internal/repository"
	"attendance_backend/internal/service"
)

// CheckInHandler exposes the daily check-in and its status query.
type CheckInHandler struct {
	Ledger *service.Ledger
}

func NewCheckInHandler(ledger *service.Ledger) *CheckInHandler {
	return &CheckInHandler{Ledger: ledger}
}

// CheckIn records today's attendance for the authenticated user. The IP
// gate middleware has already authorized the resolved address. A second
// check-in on the same day answers 409 with already_checked set, the
// normal outcome of a double click; nothing is logged as an error.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Ledger.CheckIn(ctx, middleware.UserID(c), middleware.ClientIP(c))
	switch {
	case errors.Is(err, repository.ErrAlreadyCheckedIn):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":           "already checked in today",
			"already_checked": true,
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case err != nil:
		return fail(c, err, "check-in failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "checked in",
		"checkin_date": res.CheckDate,
		"checkin_time": res.CheckTime,
		"ip_address":   res.IPAddress,
	})
}

// Status reports whether the authenticated user has checked in today.
func (h *CheckInHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Ledger.Status(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, err, "status query failed")
	}
	return c.JSON(http.StatusOK, st)
}
