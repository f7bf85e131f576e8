package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-exam-portal/internal/models"
)

// InsertQuestions пишет пачку вопросов одной транзакцией: либо весь импорт, либо ничего.
func InsertQuestions(ctx context.Context, database *sql.DB, examID int64, questions []models.Question) (int, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for i, q := range questions {
		_, err := tx.ExecContext(ctx, `
INSERT INTO exam_questions (exam_id, question_text, choice_a, choice_b, choice_c, choice_d, correct_answer)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			examID, q.Text, q.ChoiceA, q.ChoiceB, q.ChoiceC, q.ChoiceD, q.Correct)
		if err != nil {
			return 0, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(questions), nil
}

func ListQuestions(ctx context.Context, database *sql.DB, examID int64) ([]models.Question, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, exam_id, question_text, choice_a, choice_b, choice_c, choice_d, correct_answer
FROM exam_questions WHERE exam_id = $1
ORDER BY id`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Text, &q.ChoiceA, &q.ChoiceB, &q.ChoiceC, &q.ChoiceD, &q.Correct); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func UpdateQuestion(ctx context.Context, database *sql.DB, q models.Question) error {
	res, err := database.ExecContext(ctx, `
UPDATE exam_questions
SET question_text = $2, choice_a = $3, choice_b = $4, choice_c = $5, choice_d = $6, correct_answer = $7
WHERE id = $1`,
		q.ID, q.Text, q.ChoiceA, q.ChoiceB, q.ChoiceC, q.ChoiceD, q.Correct)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteQuestion(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM exam_questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func CountQuestions(ctx context.Context, database *sql.DB, examID int64) (int, error) {
	var n int
	err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM exam_questions WHERE exam_id = $1`, examID).Scan(&n)
	return n, err
}
