package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance_backend/internal/model"
)

func adminToken(t *testing.T, app *testApp) (uint64, string) {
	t.Helper()
	id := app.createUser(t, "admin", "pw", "admin", "Administrator", "IT", []string{"*"})
	return id, app.token(t, id, "admin", "admin")
}

func TestAdminForbiddenForEmployee(t *testing.T) {
	app := newTestApp(t)
	id := app.createUser(t, "alice", "pw", "employee", "Alice", "Eng", []string{"*"})
	token := app.token(t, id, "alice", "employee")

	rr := app.do(t, http.MethodGet, "/v1/admin/stats", token, "", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminSelfDeleteForbidden(t *testing.T) {
	app := newTestApp(t)
	id, token := adminToken(t, app)

	rr := app.do(t, http.MethodDelete, "/v1/admin/users/"+itoa(id), token, "", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// The account must remain present.
	_, err := app.users.GetByID(context.Background(), id)
	assert.NoError(t, err)
}

func TestAdminDeleteOtherUser(t *testing.T) {
	app := newTestApp(t)
	_, token := adminToken(t, app)
	victim := app.createUser(t, "victim", "pw", "employee", "Victim", "Eng", nil)

	rr := app.do(t, http.MethodDelete, "/v1/admin/users/"+itoa(victim), token, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = app.do(t, http.MethodDelete, "/v1/admin/users/"+itoa(victim), token, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminCreateUserValidationAndConflict(t *testing.T) {
	app := newTestApp(t)
	_, token := adminToken(t, app)

	rr := app.do(t, http.MethodPost, "/v1/admin/users", token, "", map[string]any{
		"username": "newbie",
		"password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "name and department are required")

	body := map[string]any{
		"username": "newbie", "password": "pw",
		"name": "New Bee", "department": "Eng",
		"allowed_ips": []string{"10.0.0.5"},
	}
	rr = app.do(t, http.MethodPost, "/v1/admin/users", token, "", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = app.do(t, http.MethodPost, "/v1/admin/users", token, "", body)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAdminUpdateUser(t *testing.T) {
	app := newTestApp(t)
	_, token := adminToken(t, app)
	id := app.createUser(t, "alice", "pw", "employee", "Alice", "Eng", []string{"10.0.0.1"})

	rr := app.do(t, http.MethodPut, "/v1/admin/users/"+itoa(id), token, "", map[string]any{
		"department":  "Design",
		"allowed_ips": []string{"10.0.0.2", "*"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	u, err := app.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Design", u.Department)
	assert.ElementsMatch(t, []string{"10.0.0.2", "*"}, u.AllowedIPs)
	assert.Equal(t, "Alice", u.Name, "absent fields keep their value")
}

func TestAdminStats(t *testing.T) {
	app := newTestApp(t)
	_, token := adminToken(t, app)

	a := app.createUser(t, "a", "pw", "employee", "A", "Eng", []string{"*"})
	app.createUser(t, "b", "pw", "employee", "B", "Eng", []string{"*"})

	today := time.Now().Format(model.DateLayout)
	require.NoError(t, app.records.Create(context.Background(), &model.AttendanceRecord{
		UserID: a, EmployeeName: "A", Department: "Eng",
		CheckDate: today, CheckTime: "09:00:00", IPAddress: "10.0.0.1",
		CreatedAt: time.Now().UTC(),
	}))

	rr := app.do(t, http.MethodGet, "/v1/admin/stats", token, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, float64(2), body["total_employees"])
	assert.Equal(t, float64(1), body["checked_in_today"])
	assert.Equal(t, float64(50), body["attendance_rate"])
}

func TestAdminExportMonth(t *testing.T) {
	app := newTestApp(t)
	_, token := adminToken(t, app)
	anna := app.createUser(t, "anna", "pw", "employee", "Anna", "Eng", []string{"*"})
	app.createUser(t, "bob", "pw", "employee", "Bob", "Sales", []string{"*"})

	require.NoError(t, app.records.Create(context.Background(), &model.AttendanceRecord{
		UserID: anna, EmployeeName: "Anna", Department: "Eng",
		CheckDate: "2024-05-02", CheckTime: "09:01:00", IPAddress: "10.0.0.1",
		CreatedAt: time.Now().UTC(),
	}))

	rr := app.do(t, http.MethodGet, "/v1/admin/export?year=2024&month=5", token, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attendance_2024-05.csv")

	lines := strings.Split(strings.TrimRight(rr.Body.String(), "\n"), "\n")
	// Title, blank separator, header, then one row per day of May.
	require.Len(t, lines, 3+31)
	assert.Equal(t, "Attendance 2024-05", lines[0])
	assert.Equal(t, "date,Anna,Bob", lines[2])
	assert.Equal(t, "2024-05-01,,", lines[3])
	assert.Equal(t, "2024-05-02,09:01:00,", lines[4])
	assert.Equal(t, "2024-05-31,,", lines[33])
}

func TestAdminExportRejectsBadMonth(t *testing.T) {
	app := newTestApp(t)
	_, token := adminToken(t, app)

	rr := app.do(t, http.MethodGet, "/v1/admin/export?year=2024&month=13", token, "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminListAndDeleteRecords(t *testing.T) {
	app := newTestApp(t)
	_, token := adminToken(t, app)
	a := app.createUser(t, "a", "pw", "employee", "Anna", "Eng", []string{"*"})

	require.NoError(t, app.records.Create(context.Background(), &model.AttendanceRecord{
		UserID: a, EmployeeName: "Anna", Department: "Eng",
		CheckDate: "2024-05-01", CheckTime: "09:00:00", IPAddress: "10.0.0.1",
		CreatedAt: time.Now().UTC(),
	}))

	rr := app.do(t, http.MethodGet, "/v1/admin/records?name=Ann", token, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	recs := body["records"].([]any)
	require.Len(t, recs, 1)
	recID := recs[0].(map[string]any)["id"].(float64)

	rr = app.do(t, http.MethodDelete, "/v1/admin/records/"+itoa(uint64(recID)), token, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = app.do(t, http.MethodGet, "/v1/admin/records", token, "", nil)
	body = decode(t, rr)
	assert.Empty(t, body["records"])
}
