package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	Teacher     Role = "teacher"
	Admin       Role = "admin"
)

type User struct {
	Username      string `db:"username"`
	PasswordHash  string `db:"password_hash"`
	Role          Role   `db:"role"`
	Name          string `db:"name"`
	AssignedGroup string `db:"assigned_group"`
}

// Session — серверная сессия. Токен непрозрачный (uuid), выдаётся при логине
// и живёт до expires_at; идентичность в URL больше не носим.
type Session struct {
	Token         string    `db:"token"`
	Username      string    `db:"username"`
	Role          Role      `db:"role"`
	Name          string    `db:"name"`
	AssignedGroup string    `db:"assigned_group"`
	ExpiresAt     time.Time `db:"expires_at"`
}
