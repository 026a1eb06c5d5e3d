package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInThenDuplicate(t *testing.T) {
	app := newTestApp(t)
	id := app.createUser(t, "alice", "pw", "employee", "Alice", "Eng", []string{"203.0.113.9"})
	token := app.token(t, id, "alice", "employee")

	rr := app.do(t, http.MethodPost, "/v1/checkin", token, "203.0.113.9", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.NotEmpty(t, body["checkin_time"])
	assert.Equal(t, "203.0.113.9", body["ip_address"])

	// Same day, second attempt: the expected duplicate outcome.
	rr = app.do(t, http.MethodPost, "/v1/checkin", token, "203.0.113.9", nil)
	require.Equal(t, http.StatusConflict, rr.Code)
	body = decode(t, rr)
	assert.Equal(t, true, body["already_checked"])

	// Status reflects the surviving record.
	rr = app.do(t, http.MethodGet, "/v1/checkin/status", token, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decode(t, rr)["checked_in"])
}

func TestCheckInDeniedAddressLeavesNoRecord(t *testing.T) {
	app := newTestApp(t)
	id := app.createUser(t, "bob", "pw", "employee", "Bob", "Sales", []string{"203.0.113.9"})
	token := app.token(t, id, "bob", "employee")

	rr := app.do(t, http.MethodPost, "/v1/checkin", token, "198.51.100.2", nil)
	require.Equal(t, http.StatusForbidden, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "198.51.100.2", body["client_ip"])
	assert.Equal(t, []any{"203.0.113.9"}, body["allowed_ips"])

	rr = app.do(t, http.MethodGet, "/v1/checkin/status", token, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, decode(t, rr)["checked_in"])
}

func TestCheckInRequiresToken(t *testing.T) {
	app := newTestApp(t)
	rr := app.do(t, http.MethodPost, "/v1/checkin", "", "203.0.113.9", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCheckInDeletedUser(t *testing.T) {
	app := newTestApp(t)
	id := app.createUser(t, "gone", "pw", "employee", "Gone", "Eng", []string{"*"})
	token := app.token(t, id, "gone", "employee")
	require.NoError(t, app.users.Delete(context.Background(), id))

	// The token outlived the account: an authorization failure, not a 500.
	rr := app.do(t, http.MethodPost, "/v1/checkin", token, "203.0.113.9", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
