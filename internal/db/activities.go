package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func ListActivities(ctx context.Context, database *sql.DB, stdID string) ([]models.Activity, float64, error) {
	rows, err := database.QueryContext(ctx, `
SELECT std_id, semestry, act_name, act_type, hours
FROM activities WHERE std_id = $1
ORDER BY semestry DESC, act_name`, stdID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Activity
	var total float64
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.StudentID, &a.Semester, &a.Name, &a.Type, &a.Hours); err != nil {
			return nil, 0, err
		}
		total += a.Hours
		out = append(out, a)
	}
	return out, total, rows.Err()
}
