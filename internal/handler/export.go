package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/model"
)

// ExportMonth streams a month of attendance as CSV, pivoted the way the
// sheet is read on paper: one row per calendar day, one column per
// employee, each cell the check-in time or blank. ?year= and ?month=
// default to the current month.
func (h *AdminHandler) ExportMonth(c echo.Context) error {
	now := time.Now()
	year, _ := strconv.Atoi(c.QueryParam("year"))
	month, _ := strconv.Atoi(c.QueryParam("month"))
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year/month"})
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	employees, err := h.Records.EmployeeOverviews(ctx, h.Ledger.Today())
	if err != nil {
		return fail(c, err, "employee query failed")
	}
	records, err := h.Records.ListRange(ctx,
		first.Format(model.DateLayout), last.Format(model.DateLayout))
	if err != nil {
		return fail(c, err, "record query failed")
	}

	// Index check times by (user, date) for the pivot.
	times := make(map[uint64]map[string]string)
	for _, rec := range records {
		if times[rec.UserID] == nil {
			times[rec.UserID] = make(map[string]string)
		}
		times[rec.UserID][rec.CheckDate] = rec.CheckTime
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{fmt.Sprintf("Attendance %04d-%02d", year, month)})
	w.Write([]string{})

	header := []string{"date"}
	for _, emp := range employees {
		header = append(header, emp.Name)
	}
	w.Write(header)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		date := day.Format(model.DateLayout)
		row := []string{date}
		for _, emp := range employees {
			row = append(row, times[emp.ID][date])
		}
		w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(c, err, "export failed")
	}

	filename := fmt.Sprintf("attendance_%04d-%02d.csv", year, month)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
