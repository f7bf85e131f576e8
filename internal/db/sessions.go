package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Spok95/school-exam-portal/internal/models"
)

// CreateSession выдаёт непрозрачный токен и сохраняет сессию с TTL.
func CreateSession(ctx context.Context, database *sql.DB, u models.User, ttl time.Duration) (*models.Session, error) {
	s := &models.Session{
		Token:         uuid.NewString(),
		Username:      u.Username,
		Role:          u.Role,
		Name:          u.Name,
		AssignedGroup: u.AssignedGroup,
		ExpiresAt:     time.Now().Add(ttl).UTC(),
	}
	_, err := database.ExecContext(ctx, `
INSERT INTO sessions (token, username, role, name, assigned_group, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		s.Token, s.Username, s.Role, s.Name, s.AssignedGroup, s.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession возвращает живую сессию; просроченная равна отсутствующей.
func GetSession(ctx context.Context, database *sql.DB, token string) (*models.Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrNotFound
	}
	row := database.QueryRowContext(ctx, `
SELECT token, username, role, name, assigned_group, expires_at
FROM sessions WHERE token = $1 AND expires_at > now()`, token)

	var s models.Session
	err := row.Scan(&s.Token, &s.Username, &s.Role, &s.Name, &s.AssignedGroup, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func DeleteSession(ctx context.Context, database *sql.DB, token string) error {
	_, err := database.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteExpiredSessions — фоновая уборка, возвращает число удалённых.
func DeleteExpiredSessions(ctx context.Context, database *sql.DB) (int64, error) {
	res, err := database.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
