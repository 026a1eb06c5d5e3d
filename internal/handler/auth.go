package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"attendance_backend/internal/config"
	"attendance_backend/internal/middleware"
	"attendance_backend/internal/repository"
	"attendance_backend/internal/service"
	"attendance_backend/internal/utils"
)

// AuthHandler bundles dependencies for the login and profile endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Gate  *service.Gate
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, gate *service.Gate) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Gate: gate}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userPart struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

type loginResp struct {
	Token    string   `json:"token"`
	User     userPart `json:"user"`
	ClientIP string   `json:"client_ip"`
}

// Login verifies credentials, then enforces the IP allowlist before a token
// is ever issued: an employee at an unauthorized address cannot even start
// a session. Wrong username and wrong password answer identically.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return fail(c, err, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	clientIP := middleware.ClientIP(c)
	if err := h.Gate.Authorize(ctx, u.ID, clientIP); err != nil {
		var denied *service.DeniedError
		if errors.As(err, &denied) {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error":       fmt.Sprintf("access denied: user %s is not authorized at IP %s", u.Name, denied.ClientIP),
				"client_ip":   denied.ClientIP,
				"allowed_ips": denied.AllowedIPs,
			})
		}
		return fail(c, err, "ip check failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, err, "issue token failed")
	}

	return c.JSON(http.StatusOK, loginResp{
		Token: access.Token,
		User: userPart{
			ID: u.ID, Username: u.Username, Name: u.Name,
			Department: u.Department, Role: u.Role,
		},
		ClientIP: clientIP,
	})
}

// Me returns the authenticated user's profile, re-read from the store.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return fail(c, err, "query failed")
	}
	return c.JSON(http.StatusOK, userPart{
		ID: u.ID, Username: u.Username, Name: u.Name,
		Department: u.Department, Role: u.Role,
	})
}
