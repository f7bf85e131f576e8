package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/school-exam-portal/internal/models"
)

// StudentSchedule — расписание экзаменов студента на семестр: только предметы,
// по которым он зарегистрирован и оценка ещё не выставлена (сдавать больше нечего —
// пустой список).
func StudentSchedule(ctx context.Context, database *sql.DB, stdID, semester string) ([]models.ScheduleEntry, error) {
	rows, err := database.QueryContext(ctx, `
SELECT sc.sub_code, COALESCE(su.sub_name, sc.sub_code), sc.semestry, sc.exam_day, sc.exam_start, sc.exam_end
FROM schedule sc
LEFT JOIN subjects su ON replace(su.sub_code, '-', '') = replace(sc.sub_code, '-', '')
WHERE sc.semestry = $2
  AND sc.sub_code IN (
      SELECT g.sub_code FROM grades g
      WHERE g.std_id = $1 AND g.semestry = $2 AND btrim(g.grade) = ''
  )
ORDER BY sc.exam_day, sc.exam_start`, stdID, semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.SubjectCode, &e.SubjectName, &e.Semester, &e.ExamDay, &e.ExamStart, &e.ExamEnd); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
