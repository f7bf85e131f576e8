package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func GetGradesByStudent(ctx context.Context, database *sql.DB, stdID string) ([]models.Grade, error) {
	rows, err := database.QueryContext(ctx, `
SELECT std_id, sub_code, semestry, grade, grp_code
FROM grades WHERE std_id = $1
ORDER BY semestry DESC, sub_code`, stdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Grade
	for rows.Next() {
		var g models.Grade
		if err := rows.Scan(&g.StudentID, &g.SubjectCode, &g.Semester, &g.Grade, &g.GroupCode); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListSemesters — все семестры из оценок, новые первыми.
func ListSemesters(ctx context.Context, database *sql.DB) ([]string, error) {
	rows, err := database.QueryContext(ctx, `SELECT DISTINCT semestry FROM grades ORDER BY semestry DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CurrentSemester — последний семестр; пустая строка, если оценок нет.
func CurrentSemester(ctx context.Context, database *sql.DB) (string, error) {
	var s sql.NullString
	err := database.QueryRowContext(ctx, `SELECT MAX(semestry) FROM grades`).Scan(&s)
	if err != nil {
		return "", err
	}
	return s.String, nil
}
