// Package repository implements data access over the injected store. Error
// sentinels defined here let handlers map failures to stable HTTP outcomes
// without inspecting driver error strings themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a user or attendance record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when a create or update would violate the
// unique username constraint.
var ErrUsernameExists = errors.New("username already exists")

// ErrAlreadyCheckedIn is returned when a check-in insert violates the
// UNIQUE (user_id, check_date) constraint. This is an expected, user-facing
// outcome (double click, duplicate submit), not a fault.
var ErrAlreadyCheckedIn = errors.New("already checked in today")

// isDuplicate reports whether err is a unique-constraint violation from
// either supported engine: MySQL error 1062 or sqlite's
// "UNIQUE constraint failed".
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint failed")
}
