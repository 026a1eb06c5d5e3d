package service

import (
	"context"
	"errors"
	"math"
	"time"

	"attendance_backend/internal/model"
	"attendance_backend/internal/repository"
)

// Ledger records check-ins and answers attendance queries. It never
// enforces uniqueness itself: the storage constraint on
// (user_id, check_date) is the single arbiter, so two racing check-ins for
// the same user resolve to exactly one stored row with no application-level
// locking.
type Ledger struct {
	users   *repository.UserRepo
	records *repository.AttendanceRepo
	now     func() time.Time
}

func NewLedger(users *repository.UserRepo, records *repository.AttendanceRepo) *Ledger {
	return &Ledger{users: users, records: records, now: time.Now}
}

// CheckInResult is what a successful check-in reports back to the user.
type CheckInResult struct {
	CheckDate string `json:"checkin_date"`
	CheckTime string `json:"checkin_time"`
	IPAddress string `json:"ip_address"`
}

// CheckIn records the daily check-in for userID from addr. The caller must
// have passed the access gate already. Returns
// repository.ErrAlreadyCheckedIn when a record for today exists (an
// expected outcome, not a fault) and repository.ErrNotFound for a vanished
// user.
func (l *Ledger) CheckIn(ctx context.Context, userID uint64, addr string) (CheckInResult, error) {
	// One clock reading for both fields: a record must never claim
	// yesterday's date with a time from today.
	now := l.now()
	date := now.Format(model.DateLayout)
	tm := now.Format(model.TimeLayout)

	u, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return CheckInResult{}, err
	}

	rec := &model.AttendanceRecord{
		UserID:       userID,
		EmployeeName: u.Name,
		Department:   u.Department,
		CheckDate:    date,
		CheckTime:    tm,
		IPAddress:    addr,
		CreatedAt:    now.UTC(),
	}
	if err := l.records.Create(ctx, rec); err != nil {
		return CheckInResult{}, err
	}
	return CheckInResult{CheckDate: date, CheckTime: tm, IPAddress: addr}, nil
}

// DayStatus is the user's own check state for a date.
type DayStatus struct {
	CheckedIn bool    `json:"checked_in"`
	CheckTime *string `json:"checkin_time"`
	Date      string  `json:"date"`
}

// Status reports whether userID has checked in today.
func (l *Ledger) Status(ctx context.Context, userID uint64) (DayStatus, error) {
	date := l.now().Format(model.DateLayout)
	rec, err := l.records.GetForDate(ctx, userID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return DayStatus{Date: date}, nil
	}
	if err != nil {
		return DayStatus{}, err
	}
	return DayStatus{CheckedIn: true, CheckTime: &rec.CheckTime, Date: date}, nil
}

// Stats is the admin headline: headcount, today's check-ins and the rate.
type Stats struct {
	TotalEmployees int    `json:"total_employees"`
	CheckedInToday int    `json:"checked_in_today"`
	AttendanceRate int    `json:"attendance_rate"` // round(K/E*100), 0 when E=0
	Date           string `json:"date"`
}

// Stats computes today's aggregate attendance numbers.
func (l *Ledger) Stats(ctx context.Context) (Stats, error) {
	date := l.now().Format(model.DateLayout)
	total, err := l.users.CountEmployees(ctx)
	if err != nil {
		return Stats{}, err
	}
	checked, err := l.records.CountForDate(ctx, date)
	if err != nil {
		return Stats{}, err
	}
	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(checked) / float64(total) * 100))
	}
	return Stats{TotalEmployees: total, CheckedInToday: checked, AttendanceRate: rate, Date: date}, nil
}

// Today returns the ledger's current calendar date; handlers use it so
// their "today" agrees with check-in partitioning.
func (l *Ledger) Today() string {
	return l.now().Format(model.DateLayout)
}
