package database

import (
	"context"
	"database/sql"
	"time"

	"attendance_backend/internal/config"
	"attendance_backend/internal/model"
	"attendance_backend/internal/utils"
)

// Seed inserts the bootstrap admin when the users table is empty. The
// wildcard allowlist lets the first operator in from anywhere; the expected
// follow-up is replacing it with concrete addresses through the admin UI.
func Seed(ctx context.Context, db *sql.DB, cfg config.Config) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.AdminPass, cfg.BcryptCost)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role, name, department, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		cfg.AdminUser, hash, model.RoleAdmin, "Administrator", "IT", now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_allowed_ips (user_id, address) VALUES (?,?)",
		id, model.Wildcard); err != nil {
		return err
	}
	return tx.Commit()
}
