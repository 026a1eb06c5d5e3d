package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Stats returns today's headline numbers: headcount, check-in count and the
// rounded attendance rate.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Ledger.Stats(ctx)
	if err != nil {
		return fail(c, err, "stats query failed")
	}
	return c.JSON(http.StatusOK, stats)
}

// Employees lists every employee with today's check state and their
// all-time check-in count.
func (h *AdminHandler) Employees(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	overviews, err := h.Records.EmployeeOverviews(ctx, h.Ledger.Today())
	if err != nil {
		return fail(c, err, "employee query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"employees": overviews})
}

// Departments aggregates today's attendance per department.
func (h *AdminHandler) Departments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Records.DepartmentStats(ctx, h.Ledger.Today())
	if err != nil {
		return fail(c, err, "department query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"departments": stats})
}
