package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Spok95/school-exam-portal/internal/models"
	"github.com/Spok95/school-exam-portal/internal/report"
)

// SaveAttempt пишет попытку одним атомарным upsert-ом: пересдача заменяет
// прошлую строку, гонка двух отправок не может оставить студента без результата.
func SaveAttempt(ctx context.Context, database *sql.DB, a models.Attempt) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO exam_results (exam_id, std_id, score, total_score, submitted_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (exam_id, std_id) DO UPDATE
SET score = EXCLUDED.score, total_score = EXCLUDED.total_score, submitted_at = EXCLUDED.submitted_at`,
		a.ExamID, a.StudentID, a.Score, a.TotalScore, a.SubmittedAt.UTC())
	return err
}

// GetAttempt — последняя (и единственная) попытка по паре экзамен/студент.
func GetAttempt(ctx context.Context, database *sql.DB, examID int64, stdID string) (*models.Attempt, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, exam_id, std_id, score, total_score, submitted_at
FROM exam_results WHERE exam_id = $1 AND std_id = $2`, examID, stdID)

	var a models.Attempt
	err := row.Scan(&a.ID, &a.ExamID, &a.StudentID, &a.Score, &a.TotalScore, &a.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AttemptedStudentIDs — множество студентов, сдававших хоть один экзамен
// когда-либо (попытки в хранилище не привязаны к семестру).
func AttemptedStudentIDs(ctx context.Context, database *sql.DB) (map[string]struct{}, error) {
	rows, err := database.QueryContext(ctx, `SELECT DISTINCT std_id FROM exam_results`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// RegisteredForTerm — одна строка на студента семестра (группа + один код
// предмета) для отчёта посещаемости.
func RegisteredForTerm(ctx context.Context, database *sql.DB, semester string) ([]report.RegisteredStudent, error) {
	rows, err := database.QueryContext(ctx, `
SELECT s.std_id, s.grp_code, MIN(g.sub_code)
FROM students s
JOIN grades g ON g.std_id = s.std_id
WHERE g.semestry = $1
GROUP BY s.std_id, s.grp_code`, semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.RegisteredStudent
	for rows.Next() {
		var r report.RegisteredStudent
		if err := rows.Scan(&r.StudentID, &r.GroupCode, &r.SubjectCode); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GroupResults — результаты группы для сводной «студент × предмет».
func GroupResults(ctx context.Context, database *sql.DB, grpCode string) ([]report.ResultRow, error) {
	rows, err := database.QueryContext(ctx, `
SELECT r.std_id, s.prefix || s.name || ' ' || s.surname, s.grp_code, e.sub_code, e.exam_name, r.score, r.total_score
FROM exam_results r
JOIN students s ON s.std_id = r.std_id
JOIN exams e ON e.exam_id = r.exam_id
WHERE s.grp_code = $1
ORDER BY r.std_id`, grpCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.ResultRow
	for rows.Next() {
		var r report.ResultRow
		if err := rows.Scan(&r.StudentID, &r.FullName, &r.GroupCode, &r.SubjectCode, &r.ExamName, &r.Score, &r.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TermResult — строка индивидуального отчёта за семестр.
type TermResult struct {
	SubmittedAt time.Time `json:"submitted_at"`
	StudentID   string    `json:"student_id"`
	FullName    string    `json:"full_name"`
	GroupCode   string    `json:"group_code"`
	SubjectCode string    `json:"subject_code"`
	ExamName    string    `json:"exam_name"`
	Score       int       `json:"score"`
	TotalScore  int       `json:"total_score"`
}

// TermResults — все попытки студентов, зарегистрированных в семестре, новые первыми.
func TermResults(ctx context.Context, database *sql.DB, semester string) ([]TermResult, error) {
	rows, err := database.QueryContext(ctx, `
SELECT r.submitted_at, r.std_id, s.prefix || s.name || ' ' || s.surname, s.grp_code,
       COALESCE(e.sub_code, ''), COALESCE(e.exam_name, ''), r.score, r.total_score
FROM exam_results r
JOIN students s ON s.std_id = r.std_id
LEFT JOIN exams e ON e.exam_id = r.exam_id
WHERE r.std_id IN (SELECT DISTINCT std_id FROM grades WHERE semestry = $1)
ORDER BY r.submitted_at DESC`, semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TermResult
	for rows.Next() {
		var r TermResult
		if err := rows.Scan(&r.SubmittedAt, &r.StudentID, &r.FullName, &r.GroupCode, &r.SubjectCode, &r.ExamName, &r.Score, &r.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
