package repository

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"attendance_backend/internal/database"
	"attendance_backend/internal/model"
)

// AttendanceRepo provides access to the attendance_records table. Rows are
// append-only: they are created once by a successful check-in and removed
// only by explicit admin deletes (or a user-delete cascade).
type AttendanceRepo struct {
	store *database.Store
}

func NewAttendanceRepo(store *database.Store) *AttendanceRepo { return &AttendanceRepo{store: store} }

// Create inserts exactly one record and populates rec.ID. The insert is not
// preceded by an existence check: the UNIQUE (user_id, check_date)
// constraint is the arbiter, so two racing check-ins resolve to one row and
// one ErrAlreadyCheckedIn no matter how they interleave.
func (r *AttendanceRepo) Create(ctx context.Context, rec *model.AttendanceRecord) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO attendance_records (user_id, employee_name, department, check_date, check_time, ip_address, created_at) VALUES (?,?,?,?,?,?,?)",
		rec.UserID, rec.EmployeeName, rec.Department, rec.CheckDate, rec.CheckTime, rec.IPAddress, rec.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrAlreadyCheckedIn
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// GetForDate returns the record for (userID, date) or ErrNotFound.
func (r *AttendanceRepo) GetForDate(ctx context.Context, userID uint64, date string) (model.AttendanceRecord, error) {
	db, err := r.store.DB()
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	var rec model.AttendanceRecord
	err = db.QueryRowContext(ctx,
		"SELECT id, user_id, employee_name, department, check_date, check_time, ip_address, created_at FROM attendance_records WHERE user_id = ? AND check_date = ? LIMIT 1",
		userID, date).Scan(&rec.ID, &rec.UserID, &rec.EmployeeName, &rec.Department,
		&rec.CheckDate, &rec.CheckTime, &rec.IPAddress, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return model.AttendanceRecord{}, ErrNotFound
	}
	return rec, err
}

// CountForDate returns how many check-ins exist for a calendar date. The
// unique constraint guarantees this equals the number of distinct users who
// checked in that day.
func (r *AttendanceRepo) CountForDate(ctx context.Context, date string) (int, error) {
	db, err := r.store.DB()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendance_records WHERE check_date = ?", date).Scan(&n)
	return n, err
}

// RecordFilter narrows a listing. Zero values mean "no constraint"; Date
// and From/To may be combined, Name matches the snapshot employee_name as a
// substring.
type RecordFilter struct {
	Date  string // exact calendar date
	From  string // inclusive lower bound on check_date
	To    string // inclusive upper bound on check_date
	Name  string // employee name substring
	Page  int    // 1-based page number
	Limit int    // page size
}

// List returns a filtered, newest-first page of records joined with the
// owning username, plus the total row count for pagination.
func (r *AttendanceRepo) List(ctx context.Context, f RecordFilter) ([]model.AttendanceRecord, int, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, 0, err
	}

	var conds []string
	var args []any
	if f.Date != "" {
		conds = append(conds, "ar.check_date = ?")
		args = append(args, f.Date)
	}
	if f.From != "" {
		conds = append(conds, "ar.check_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		conds = append(conds, "ar.check_date <= ?")
		args = append(args, f.To)
	}
	if f.Name != "" {
		conds = append(conds, "ar.employee_name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendance_records ar"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	query := `SELECT ar.id, ar.user_id, ar.employee_name, ar.department, ar.check_date, ar.check_time,
		ar.ip_address, ar.created_at, COALESCE(u.username, '')
		FROM attendance_records ar
		LEFT JOIN users u ON ar.user_id = u.id` +
		where + " ORDER BY ar.created_at DESC, ar.id DESC LIMIT ? OFFSET ?"
	rows, err := db.QueryContext(ctx, query, append(args, f.Limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []model.AttendanceRecord{}
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.EmployeeName, &rec.Department,
			&rec.CheckDate, &rec.CheckTime, &rec.IPAddress, &rec.CreatedAt, &rec.Username); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

// Delete removes one record by id; ErrNotFound when it does not exist.
// This is the only transition out of the Recorded state for a (user, date)
// pair: corrections are delete-then-recreate, never in-place edits.
func (r *AttendanceRepo) Delete(ctx context.Context, id uint64) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM attendance_records WHERE id = ?", id)
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
	return nil
}

// ListRange returns all records with from <= check_date <= to, used by the
// month export.
func (r *AttendanceRepo) ListRange(ctx context.Context, from, to string) ([]model.AttendanceRecord, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		"SELECT id, user_id, employee_name, department, check_date, check_time, ip_address, created_at FROM attendance_records WHERE check_date >= ? AND check_date <= ? ORDER BY check_date, check_time",
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.EmployeeName, &rec.Department,
			&rec.CheckDate, &rec.CheckTime, &rec.IPAddress, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DepartmentStat aggregates one department for a given date.
type DepartmentStat struct {
	Department     string  `json:"department"`
	TotalEmployees int     `json:"total_employees"`
	CheckedToday   int     `json:"checked_today"`
	AttendanceRate float64 `json:"attendance_rate"` // percent, one decimal
}

// DepartmentStats groups employees by department with that date's check-in
// counts. The rate is computed in Go rather than SQL so rounding is
// identical across engines.
func (r *AttendanceRepo) DepartmentStats(ctx context.Context, date string) ([]DepartmentStat, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT u.department, COUNT(u.id), COUNT(ar.id)
		FROM users u
		LEFT JOIN attendance_records ar ON u.id = ar.user_id AND ar.check_date = ?
		WHERE u.role = ?
		GROUP BY u.department
		ORDER BY u.department`, date, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []DepartmentStat{}
	for rows.Next() {
		var s DepartmentStat
		if err := rows.Scan(&s.Department, &s.TotalEmployees, &s.CheckedToday); err != nil {
			return nil, err
		}
		if s.TotalEmployees > 0 {
			rate := float64(s.CheckedToday) / float64(s.TotalEmployees) * 100
			s.AttendanceRate = math.Round(rate*10) / 10
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// EmployeeOverview is one employee's line in the admin dashboard: today's
// check state plus their all-time check-in count.
type EmployeeOverview struct {
	ID            uint64  `json:"id"`
	Username      string  `json:"username"`
	Name          string  `json:"name"`
	Department    string  `json:"department"`
	CheckedToday  bool    `json:"checked_today"`
	CheckTime     *string `json:"today_checkin_time"`
	TotalCheckins int     `json:"total_checkins"`
}

// EmployeeOverviews lists every employee with their state for the given
// date, ordered by name.
func (r *AttendanceRepo) EmployeeOverviews(ctx context.Context, date string) ([]EmployeeOverview, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT u.id, u.username, u.name, u.department, ar.check_time
		FROM users u
		LEFT JOIN attendance_records ar ON u.id = ar.user_id AND ar.check_date = ?
		WHERE u.role = ?
		ORDER BY u.name`, date, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overviews := []EmployeeOverview{}
	for rows.Next() {
		var o EmployeeOverview
		var checkTime sql.NullString
		if err := rows.Scan(&o.ID, &o.Username, &o.Name, &o.Department, &checkTime); err != nil {
			return nil, err
		}
		if checkTime.Valid {
			o.CheckedToday = true
			o.CheckTime = &checkTime.String
		}
		overviews = append(overviews, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Totals in one grouped query instead of one query per employee.
	totRows, err := db.QueryContext(ctx,
		"SELECT user_id, COUNT(*) FROM attendance_records GROUP BY user_id")
	if err != nil {
		return nil, err
	}
	defer totRows.Close()
	totals := make(map[uint64]int)
	for totRows.Next() {
		var id uint64
		var n int
		if err := totRows.Scan(&id, &n); err != nil {
			return nil, err
		}
		totals[id] = n
	}
	if err := totRows.Err(); err != nil {
		return nil, err
	}
	for i := range overviews {
		overviews[i].TotalCheckins = totals[overviews[i].ID]
	}
	return overviews, nil
}
