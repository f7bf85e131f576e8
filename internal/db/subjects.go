package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func ListSubjects(ctx context.Context, database *sql.DB) ([]models.Subject, error) {
	rows, err := database.QueryContext(ctx, `SELECT sub_code, sub_name FROM subjects ORDER BY sub_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.Code, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func ListGroups(ctx context.Context, database *sql.DB, limit int) ([]models.Group, error) {
	rows, err := database.QueryContext(ctx, `SELECT grp_code, teacher_name FROM groups ORDER BY grp_code LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.Code, &g.TeacherName); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// SearchGroups — поиск группы по коду или имени учителя.
func SearchGroups(ctx context.Context, database *sql.DB, keyword string) ([]models.Group, error) {
	rows, err := database.QueryContext(ctx, `
SELECT grp_code, teacher_name FROM groups
WHERE grp_code ILIKE $1 OR teacher_name ILIKE $1
ORDER BY grp_code`, "%"+keyword+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.Code, &g.TeacherName); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// TeacherNamesByGroup — карта «группа → имя учителя» для отчётов.
func TeacherNamesByGroup(ctx context.Context, database *sql.DB) (map[string]string, error) {
	rows, err := database.QueryContext(ctx, `SELECT name, assigned_group FROM users WHERE role = 'teacher'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, grp string
		if err := rows.Scan(&name, &grp); err != nil {
			return nil, err
		}
		out[grp] = name
	}
	return out, rows.Err()
}
