package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func CreateExam(ctx context.Context, database *sql.DB, e models.Exam) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO exams (exam_name, sub_code, semestry, is_active)
VALUES ($1, $2, $3, $4)
RETURNING exam_id`, e.Name, e.SubjectCode, e.Semester, e.IsActive).Scan(&id)
	return id, err
}

func GetExam(ctx context.Context, database *sql.DB, id int64) (*models.Exam, error) {
	row := database.QueryRowContext(ctx, `
SELECT exam_id, exam_name, sub_code, semestry, is_active FROM exams WHERE exam_id = $1`, id)

	var e models.Exam
	err := row.Scan(&e.ID, &e.Name, &e.SubjectCode, &e.Semester, &e.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func ListExams(ctx context.Context, database *sql.DB) ([]models.Exam, error) {
	return queryExams(ctx, database, `
SELECT exam_id, exam_name, sub_code, semestry, is_active FROM exams ORDER BY exam_id DESC`)
}

// ListActiveExams — экзамены, открытые администратором. Видимость для
// конкретного студента дальше решает exam.Eligible.
func ListActiveExams(ctx context.Context, database *sql.DB) ([]models.Exam, error) {
	return queryExams(ctx, database, `
SELECT exam_id, exam_name, sub_code, semestry, is_active FROM exams WHERE is_active ORDER BY exam_id DESC`)
}

func queryExams(ctx context.Context, database *sql.DB, query string) ([]models.Exam, error) {
	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Exam
	for rows.Next() {
		var e models.Exam
		if err := rows.Scan(&e.ID, &e.Name, &e.SubjectCode, &e.Semester, &e.IsActive); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func SetExamActive(ctx context.Context, database *sql.DB, id int64, active bool) error {
	res, err := database.ExecContext(ctx, `UPDATE exams SET is_active = $2 WHERE exam_id = $1`, id, active)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAllExamsActive — «рубильник»: открыть/закрыть сдачу по всем предметам сразу.
func SetAllExamsActive(ctx context.Context, database *sql.DB, active bool) error {
	_, err := database.ExecContext(ctx, `UPDATE exams SET is_active = $1`, active)
	return err
}

// DeleteExam удаляет экзамен; вопросы и результаты уходят каскадом по FK.
func DeleteExam(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM exams WHERE exam_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
