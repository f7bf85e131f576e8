package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/school-exam-portal/internal/models"
)

var ErrNotFound = errors.New("not found")

func GetStudent(ctx context.Context, database *sql.DB, stdID string) (*models.Student, error) {
	if stdID == "" {
		// пустой канонический код — это «не найдено», не wildcard
		return nil, ErrNotFound
	}
	row := database.QueryRowContext(ctx, `
SELECT std_id, prefix, name, surname, grp_code, phone, card_id, level
FROM students WHERE std_id = $1`, stdID)

	var s models.Student
	err := row.Scan(&s.ID, &s.Prefix, &s.Name, &s.Surname, &s.GroupCode, &s.Phone, &s.CardID, &s.Level)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SearchStudents — поиск по коду/имени/фамилии, максимум limit строк.
func SearchStudents(ctx context.Context, database *sql.DB, keyword string, limit int) ([]models.Student, error) {
	rows, err := database.QueryContext(ctx, `
SELECT std_id, prefix, name, surname, grp_code, phone, card_id, level
FROM students
WHERE std_id ILIKE $1 OR name ILIKE $1 OR surname ILIKE $1
ORDER BY std_id
LIMIT $2`, "%"+keyword+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStudents(rows)
}

// ListGroupStudents — студенты группы, зарегистрированные в семестре.
func ListGroupStudents(ctx context.Context, database *sql.DB, grpCode, semester string) ([]models.Student, error) {
	rows, err := database.QueryContext(ctx, `
SELECT DISTINCT s.std_id, s.prefix, s.name, s.surname, s.grp_code, s.phone, s.card_id, s.level
FROM students s
JOIN grades g ON g.std_id = s.std_id
WHERE s.grp_code = $1 AND g.semestry = $2
ORDER BY s.std_id`, grpCode, semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStudents(rows)
}

func scanStudents(rows *sql.Rows) ([]models.Student, error) {
	var out []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Prefix, &s.Name, &s.Surname, &s.GroupCode, &s.Phone, &s.CardID, &s.Level); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
