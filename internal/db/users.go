package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func GetUser(ctx context.Context, database *sql.DB, username string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
SELECT username, password_hash, role, name, assigned_group FROM users WHERE username = $1`, username)

	var u models.User
	err := row.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.AssignedGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetPassword хэширует и сохраняет новый пароль. Открытым текстом пароли
// не живут нигде, в том числе при админском сбросе.
func SetPassword(ctx context.Context, database *sql.DB, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := database.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE username = $1`, username, string(hash))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SeedAdmin заводит администратора при первом старте; существующего не трогает.
func SeedAdmin(ctx context.Context, database *sql.DB, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = database.ExecContext(ctx, `
INSERT INTO users (username, password_hash, role, name, assigned_group)
VALUES ($1, $2, 'admin', 'Administrator', '')
ON CONFLICT (username) DO NOTHING`, username, string(hash))
	return err
}
