package model

import "time"

// Layouts for the calendar fields of an attendance record. CheckDate and
// CheckTime must derive from one clock reading so a record can never claim
// yesterday's date with a time that belongs to today.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// AttendanceRecord mirrors the attendance_records table. EmployeeName and
// Department are snapshots of the user at check-in time so history stays
// accurate when the user record later changes. CheckDate is the partition
// key of the UNIQUE (user_id, check_date) constraint; rows are never mutated
// after creation, only deleted by explicit admin action.
type AttendanceRecord struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	EmployeeName string    `json:"employee_name"`
	Department   string    `json:"department"`
	CheckDate    string    `json:"check_date"`
	CheckTime    string    `json:"check_time"`
	IPAddress    string    `json:"ip_address"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username,omitempty"` // joined from users in admin listings
}
