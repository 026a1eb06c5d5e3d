package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance_backend/internal/database"
	"attendance_backend/internal/model"
	"attendance_backend/internal/utils"
)

const testBcryptCost = 4 // minimum cost keeps the tests fast

func TestUserCreateAndGet(t *testing.T) {
	repo := NewUserRepo(newTestStore(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, &model.User{
		Username:   "alice",
		Role:       model.RoleEmployee,
		Name:       "Alice Example",
		Department: "Engineering",
		AllowedIPs: []string{"203.0.113.9", "10.0.0.5"},
	}, "secret", testBcryptCost)
	require.NoError(t, err)
	require.NotZero(t, id)

	u, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Alice Example", u.Name)
	assert.Equal(t, "Engineering", u.Department)
	assert.Equal(t, model.RoleEmployee, u.Role)
	assert.ElementsMatch(t, []string{"203.0.113.9", "10.0.0.5"}, u.AllowedIPs)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "secret"))
}

func TestUserUsernameIsCaseSensitive(t *testing.T) {
	repo := NewUserRepo(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.User{
		Username: "Alice", Role: model.RoleEmployee, Name: "A", Department: "D",
	}, "pw", testBcryptCost)
	require.NoError(t, err)

	_, err = repo.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDuplicateUsername(t *testing.T) {
	repo := NewUserRepo(newTestStore(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, &model.User{
		Username: "bob", Role: model.RoleEmployee, Name: "Bob One", Department: "D",
	}, "pw", testBcryptCost)
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.User{
		Username: "bob", Role: model.RoleEmployee, Name: "Bob Two", Department: "D",
	}, "pw", testBcryptCost)
	assert.ErrorIs(t, err, ErrUsernameExists)

	// The pre-existing account is unaffected.
	u, err := repo.GetByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Bob One", u.Name)
}

func TestUserUpdatePartial(t *testing.T) {
	repo := NewUserRepo(newTestStore(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, &model.User{
		Username: "carol", Role: model.RoleEmployee, Name: "Carol", Department: "Sales",
		AllowedIPs: []string{"10.0.0.1"},
	}, "pw", testBcryptCost)
	require.NoError(t, err)

	newName := "Carol Updated"
	require.NoError(t, repo.Update(ctx, id, UserUpdate{Name: &newName}, testBcryptCost))

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Carol Updated", u.Name)
	assert.Equal(t, "Sales", u.Department)
	assert.Equal(t, []string{"10.0.0.1"}, u.AllowedIPs)

	ips := []string{"192.168.1.7", model.Wildcard}
	require.NoError(t, repo.Update(ctx, id, UserUpdate{AllowedIPs: &ips}, testBcryptCost))
	got, err := repo.AllowedAddresses(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, ips, got)
}

func TestUserUpdateUsernameConflict(t *testing.T) {
	repo := NewUserRepo(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.User{Username: "dave", Role: model.RoleEmployee, Name: "D", Department: "X"}, "pw", testBcryptCost)
	require.NoError(t, err)
	id, err := repo.Create(ctx, &model.User{Username: "erin", Role: model.RoleEmployee, Name: "E", Department: "X"}, "pw", testBcryptCost)
	require.NoError(t, err)

	taken := "dave"
	err = repo.Update(ctx, id, UserUpdate{Username: &taken}, testBcryptCost)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserDeleteCascades(t *testing.T) {
	store := newTestStore(t)
	users := NewUserRepo(store)
	records := NewAttendanceRepo(store)
	ctx := context.Background()

	id, err := users.Create(ctx, &model.User{
		Username: "frank", Role: model.RoleEmployee, Name: "Frank", Department: "Ops",
		AllowedIPs: []string{"10.0.0.9"},
	}, "pw", testBcryptCost)
	require.NoError(t, err)

	require.NoError(t, records.Create(ctx, &model.AttendanceRecord{
		UserID: id, EmployeeName: "Frank", Department: "Ops",
		CheckDate: "2024-05-01", CheckTime: "09:00:00",
		IPAddress: "10.0.0.9", CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, users.Delete(ctx, id))

	_, err = users.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = users.AllowedAddresses(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = records.GetForDate(ctx, id, "2024-05-01")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, users.Delete(ctx, id), ErrNotFound)
}

func TestUserRepoNotReadyStore(t *testing.T) {
	repo := NewUserRepo(database.NewStore(nil))
	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, database.ErrNotReady)
}
