package handler

import (
	"attendance_backend/internal/config"
	"attendance_backend/internal/repository"
	"attendance_backend/internal/service"
)

// AdminHandler groups the role-gated management endpoints: users, records,
// aggregate stats and the month export. Routes using it are wrapped in
// RequireRole(admin) by the router; the handlers themselves only guard the
// self-delete case, which the role check cannot express.
type AdminHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Records *repository.AttendanceRepo
	Ledger  *service.Ledger
}

func NewAdminHandler(cfg config.Config, users *repository.UserRepo, records *repository.AttendanceRepo, ledger *service.Ledger) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Records: records, Ledger: ledger}
}
