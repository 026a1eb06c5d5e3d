package model

import "time"

// Role values stored in users.role. Admins unlock the /v1/admin surface;
// everyone else is an employee who can only check in.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Wildcard is the allowlist sentinel meaning "any address is authorized".
// Admins type it into the same field as concrete addresses, so it is stored
// as an ordinary member of the allowlist relation rather than a flag.
const Wildcard = "*"

// User mirrors the `users` table plus the user_allowed_ips relation.
// AllowedIPs is the set of network addresses the user may authenticate and
// check in from; an empty set means the user can never pass the IP gate.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique, case-sensitive login name.
//  PasswordHash – bcrypt hashed password; never serialized outward.
//  Role         – "admin" or "employee".
//  Name         – display name, snapshotted onto attendance rows.
//  Department   – display department, snapshotted onto attendance rows.
//  AllowedIPs   – addresses from user_allowed_ips, may contain Wildcard.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	AllowedIPs   []string  `json:"allowed_ips"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
