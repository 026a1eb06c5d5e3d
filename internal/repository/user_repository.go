package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"attendance_backend/internal/database"
	"attendance_backend/internal/model"
	"attendance_backend/internal/utils"
)

// UserRepo provides CRUD over the users table and the user_allowed_ips
// relation. The allowlist is stored as a proper one-to-many relation, with
// the wildcard sentinel as an ordinary member, so admins edit addresses and
// the wildcard through the same field.
type UserRepo struct {
	store *database.Store
}

func NewUserRepo(store *database.Store) *UserRepo { return &UserRepo{store: store} }

// Create inserts a user plus its allowlist in one transaction and returns
// the new ID. A duplicate username maps to ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
	db, err := r.store.DB()
	if err != nil {
		return 0, err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role, name, department, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		u.Username, hash, u.Role, u.Name, u.Department, now, now)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := replaceAllowedIPs(ctx, tx, uint64(id), u.AllowedIPs); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username. Lookups are
// case-sensitive: "Alice" and "alice" are different accounts.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getWhere(ctx, "username = ?", username)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *UserRepo) getWhere(ctx context.Context, cond string, arg any) (model.User, error) {
	db, err := r.store.DB()
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	err = db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, name, department, created_at, updated_at FROM users WHERE "+cond+" LIMIT 1",
		arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.Department, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.AllowedIPs, err = r.allowedIPs(ctx, db, u.ID)
	return u, err
}

// AllowedAddresses returns the current allowlist for a user, re-read from
// the store on every call so admin edits apply immediately. A missing user
// yields ErrNotFound rather than an empty list: the access gate must treat
// a deleted account as an authorization failure, not as "no restrictions".
func (r *UserRepo) AllowedAddresses(ctx context.Context, userID uint64) ([]string, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	var exists int
	err = db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ? LIMIT 1", userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.allowedIPs(ctx, db, userID)
}

func (r *UserRepo) allowedIPs(ctx context.Context, db *sql.DB, userID uint64) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT address FROM user_allowed_ips WHERE user_id = ? ORDER BY address", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ips := []string{} // empty, not nil, so JSON renders [] instead of null
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, err
		}
		ips = append(ips, ip)
	}
	return ips, rows.Err()
}

// List returns all users with their allowlists, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		"SELECT id, username, role, name, department, created_at, updated_at FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.Name, &u.Department, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.AllowedIPs = []string{}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One pass over the relation instead of a query per user.
	ipRows, err := db.QueryContext(ctx, "SELECT user_id, address FROM user_allowed_ips ORDER BY address")
	if err != nil {
		return nil, err
	}
	defer ipRows.Close()
	byUser := make(map[uint64][]string)
	for ipRows.Next() {
		var id uint64
		var ip string
		if err := ipRows.Scan(&id, &ip); err != nil {
			return nil, err
		}
		byUser[id] = append(byUser[id], ip)
	}
	if err := ipRows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		if ips, ok := byUser[users[i].ID]; ok {
			users[i].AllowedIPs = ips
		}
	}
	return users, nil
}

// UserUpdate describes a partial update: nil fields are left untouched.
type UserUpdate struct {
	Username   *string
	Password   *string
	Role       *string
	Name       *string
	Department *string
	AllowedIPs *[]string
}

// Update applies the non-nil fields of upd to the user. Returns ErrNotFound
// for a missing user and ErrUsernameExists when the new username collides
// with another account.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate, cost int) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if upd.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *upd.Username)
	}
	if upd.Password != nil {
		hash, err := utils.HashPassword(*upd.Password, cost)
		if err != nil {
			return err
		}
		sets = append(sets, "password_hash = ?")
		args = append(args, hash)
	}
	if upd.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *upd.Role)
	}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Department != nil {
		sets = append(sets, "department = ?")
		args = append(args, *upd.Department)
	}
	args = append(args, id)
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		if isDuplicate(err) {
			return ErrUsernameExists
		}
		return err
	}

	if upd.AllowedIPs != nil {
		if err := replaceAllowedIPs(ctx, tx, id, *upd.AllowedIPs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a user together with their allowlist and attendance rows.
// The cascade is issued explicitly rather than left to the foreign keys so
// behavior is identical across engines and configurations.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM attendance_records WHERE user_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_allowed_ips WHERE user_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// CountEmployees returns the number of accounts with the employee role,
// the denominator of the attendance rate.
func (r *UserRepo) CountEmployees(ctx context.Context) (int, error) {
	db, err := r.store.DB()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role = ?", model.RoleEmployee).Scan(&n)
	return n, err
}

// replaceAllowedIPs rewrites the allowlist relation for a user inside tx.
// Blank and duplicate entries are skipped instead of tripping the unique
// constraint.
func replaceAllowedIPs(ctx context.Context, tx *sql.Tx, userID uint64, ips []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_allowed_ips WHERE user_id = ?", userID); err != nil {
		return err
	}
	seen := make(map[string]bool, len(ips))
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip == "" || seen[ip] {
			continue
		}
		seen[ip] = true
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_allowed_ips (user_id, address) VALUES (?,?)", userID, ip); err != nil {
			return err
		}
	}
	return nil
}
