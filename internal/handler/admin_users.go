package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/middleware"
	"attendance_backend/internal/model"
	"attendance_backend/internal/repository"
)

// ----- DTOs -----

type createUserReq struct {
	Username   string   `json:"username"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	AllowedIPs []string `json:"allowed_ips"`
}

type updateUserReq struct {
	Username   *string   `json:"username"`
	Password   *string   `json:"password"`
	Role       *string   `json:"role"`
	Name       *string   `json:"name"`
	Department *string   `json:"department"`
	AllowedIPs *[]string `json:"allowed_ips"`
}

// ListUsers returns every account including its allowlist. Password hashes
// never leave the model layer.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, err, "user query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// CreateUser validates the required fields and inserts the account with its
// allowlist. A taken username answers 409 and leaves the existing account
// untouched.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" || req.Name == "" || req.Department == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, password, name and department are required"})
	}
	role := req.Role
	if role != model.RoleAdmin && role != model.RoleEmployee {
		role = model.RoleEmployee
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Users.Create(ctx, &model.User{
		Username:   req.Username,
		Role:       role,
		Name:       req.Name,
		Department: req.Department,
		AllowedIPs: req.AllowedIPs,
	}, req.Password, h.Cfg.BcryptCost)
	if errors.Is(err, repository.ErrUsernameExists) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	}
	if err != nil {
		return fail(c, err, "create user failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "user created", "user_id": id})
}

// UpdateUser applies any subset of fields. Absent fields keep their value;
// a username collision with another account answers 409.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == nil && req.Password == nil && req.Role == nil &&
		req.Name == nil && req.Department == nil && req.AllowedIPs == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}
	if req.Role != nil && *req.Role != model.RoleAdmin && *req.Role != model.RoleEmployee {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Users.Update(ctx, id, repository.UserUpdate{
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		Name:       req.Name,
		Department: req.Department,
		AllowedIPs: req.AllowedIPs,
	}, h.Cfg.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, repository.ErrUsernameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	case err != nil:
		return fail(c, err, "update user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}

// DeleteUser removes an account and cascades to its allowlist and
// attendance rows. The authenticated admin cannot delete their own account.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == middleware.UserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Users.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return fail(c, err, "delete user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
