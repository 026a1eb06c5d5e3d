package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"attendance_backend/internal/config"
	"attendance_backend/internal/database"
	"attendance_backend/internal/handler"
	"attendance_backend/internal/repository"
	"attendance_backend/internal/router"
	"attendance_backend/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Seed(ctx, db, cfg); err != nil {
		log.Fatalf("seed: %v", err)
	}
	cancel()

	// Explicit wiring, no globals: the store handle flows into the
	// repositories and from there into the gate and ledger.
	store := database.NewStore(db)
	users := repository.NewUserRepo(store)
	records := repository.NewAttendanceRepo(store)
	gate := service.NewGate(users)
	ledger := service.NewLedger(users, records)

	rdb := config.NewRedisClient() // nil disables login throttling

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())

	auth := handler.NewAuthHandler(cfg, users, gate)
	checkin := handler.NewCheckInHandler(ledger)
	admin := handler.NewAdminHandler(cfg, users, records, ledger)
	router.RegisterRoutes(e, cfg, rdb, gate, auth, checkin, admin)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, driver=%s)", addr, cfg.Env, cfg.DBDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
