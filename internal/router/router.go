package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"attendance_backend/internal/config"
	"attendance_backend/internal/handler"
	"attendance_backend/internal/middleware"
	"attendance_backend/internal/model"
	"attendance_backend/internal/service"
)

// RegisterRoutes wires the full route table. Middleware ordering is the
// access-control story of the whole service: the address resolver runs on
// everything, JWT authentication guards /v1, the allowlist gate guards
// check-in (login performs the same gate check inside the handler, before a
// token exists), and the admin group layers the role check on top.
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client, gate *service.Gate,
	auth *handler.AuthHandler, checkin *handler.CheckInHandler, admin *handler.AdminHandler) {

	e.Use(middleware.ResolveClientIP)

	e.GET("/healthz", handler.Health)
	e.GET("/v1/ip", handler.IP)

	throttle := middleware.LoginThrottle(config.LoadThrottleConfig(), rdb)
	e.POST("/v1/auth/login", auth.Login, throttle)

	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	v1.GET("/me", auth.Me)
	v1.GET("/checkin/status", checkin.Status)
	v1.POST("/checkin", checkin.CheckIn, middleware.RequireAllowedIP(gate))

	adm := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	adm.GET("/stats", admin.Stats)
	adm.GET("/employees", admin.Employees)
	adm.GET("/departments", admin.Departments)
	adm.GET("/records", admin.ListRecords)
	adm.DELETE("/records/:id", admin.DeleteRecord)
	adm.GET("/users", admin.ListUsers)
	adm.POST("/users", admin.CreateUser)
	adm.PUT("/users/:id", admin.UpdateUser)
	adm.DELETE("/users/:id", admin.DeleteUser)
	adm.GET("/export", admin.ExportMonth)
}
