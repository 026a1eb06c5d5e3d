package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/repository"
)

// ListRecords returns a filtered page of attendance rows. Filters combine
// freely: ?date= for one day, ?from=/?to= for a range, ?name= for an
// employee-name substring; ?page= and ?limit= paginate (defaults 1/50).
func (h *AdminHandler) ListRecords(c echo.Context) error {
	f := repository.RecordFilter{
		Date: c.QueryParam("date"),
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
		Name: c.QueryParam("name"),
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, total, err := h.Records.List(ctx, f)
	if err != nil {
		return fail(c, err, "record query failed")
	}
	pages := total / f.Limit
	if total%f.Limit > 0 {
		pages++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"records": records,
		"pagination": echo.Map{
			"page":  f.Page,
			"limit": f.Limit,
			"total": total,
			"pages": pages,
		},
	})
}

// DeleteRecord removes one attendance row, returning its (user, date) pair
// to the not-checked-in state. Deleting and letting the user check in again
// is the only sanctioned correction path; rows are never edited in place.
func (h *AdminHandler) DeleteRecord(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Records.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	}
	if err != nil {
		return fail(c, err, "delete failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "record deleted"})
}
