package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"attendance_backend/internal/config"
	"attendance_backend/internal/database"
	"attendance_backend/internal/handler"
	"attendance_backend/internal/model"
	"attendance_backend/internal/repository"
	"attendance_backend/internal/router"
	"attendance_backend/internal/service"
	"attendance_backend/internal/utils"
)

// testApp wires the real route table over a fresh sqlite store, so handler
// tests go through the same middleware chain production requests do.
type testApp struct {
	e       *echo.Echo
	cfg     config.Config
	users   *repository.UserRepo
	records *repository.AttendanceRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{
		Env:          "test",
		JWTSecret:    "test-secret",
		AccessTTLMin: 60,
		BcryptCost:   4,
		DBDriver:     "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg.DBDriver))

	store := database.NewStore(db)
	users := repository.NewUserRepo(store)
	records := repository.NewAttendanceRepo(store)
	gate := service.NewGate(users)
	ledger := service.NewLedger(users, records)

	e := echo.New()
	router.RegisterRoutes(e, cfg, nil, gate,
		handler.NewAuthHandler(cfg, users, gate),
		handler.NewCheckInHandler(ledger),
		handler.NewAdminHandler(cfg, users, records, ledger))
	return &testApp{e: e, cfg: cfg, users: users, records: records}
}

func (a *testApp) createUser(t *testing.T, username, password, role, name, dept string, ips []string) uint64 {
	t.Helper()
	id, err := a.users.Create(context.Background(), &model.User{
		Username: username, Role: role, Name: name, Department: dept, AllowedIPs: ips,
	}, password, a.cfg.BcryptCost)
	require.NoError(t, err)
	return id
}

func (a *testApp) token(t *testing.T, id uint64, username, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(a.cfg.JWTSecret, id, username, role, a.cfg.AccessTTLMin)
	require.NoError(t, err)
	return tok.Token
}

// do performs a request against the route table. ip is sent as
// X-Forwarded-For so tests control the resolved address.
func (a *testApp) do(t *testing.T, method, path, token, ip string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	rr := httptest.NewRecorder()
	a.e.ServeHTTP(rr, req)
	return rr
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m
}
