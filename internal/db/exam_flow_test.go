//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/models"
	"github.com/Spok95/school-exam-portal/internal/testutil/testdb"
)

func seedStudent(ctx context.Context, t *testing.T, h *testdb.DBHandle) {
	t.Helper()
	snap := &db.LegacySnapshot{
		Students: []models.Student{{
			ID: "6512345678", Prefix: "นาย", Name: "สมชาย", Surname: "ใจดี",
			GroupCode: "G01", Level: "primary",
		}},
		Grades: []models.Grade{
			{StudentID: "6512345678", SubjectCode: "MATH1", Semester: "1/2567", Grade: "", GroupCode: "G01"},
			{StudentID: "6512345678", SubjectCode: "SCI1", Semester: "1/2567", Grade: "4", GroupCode: "G01"},
		},
		Groups: []models.Group{{Code: "G01", TeacherName: "ครูสมศรี"}},
	}
	if err := db.ReplaceLegacyTables(ctx, h.DB, snap); err != nil {
		t.Fatal(err)
	}
}

func TestExamFlow_SubmitAndRetake(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedStudent(ctx, t, h)

	examID, err := db.CreateExam(ctx, h.DB, models.Exam{
		Name: "สอบกลางภาค", SubjectCode: "MATH1", Semester: "1/2567", IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	n, err := db.InsertQuestions(ctx, h.DB, examID, []models.Question{
		{Text: "2+2?", ChoiceA: "3", ChoiceB: "4", ChoiceC: "5", ChoiceD: "6", Correct: "B"},
		{Text: "3*3?", ChoiceA: "9", ChoiceB: "6", ChoiceC: "8", ChoiceD: "12", Correct: "A"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("ожидали 2 вопроса, вставлено %d", n)
	}

	// первая сдача
	if err := db.SaveAttempt(ctx, h.DB, models.Attempt{
		ExamID: examID, StudentID: "6512345678", Score: 1, TotalScore: 2, SubmittedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	// пересдача заменяет строку, не плодит вторую
	if err := db.SaveAttempt(ctx, h.DB, models.Attempt{
		ExamID: examID, StudentID: "6512345678", Score: 2, TotalScore: 2, SubmittedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	a, err := db.GetAttempt(ctx, h.DB, examID, "6512345678")
	if err != nil {
		t.Fatal(err)
	}
	if a.Score != 2 {
		t.Fatalf("ожидали счёт пересдачи 2, получили %d", a.Score)
	}

	var cnt int
	if err := h.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM exam_results`).Scan(&cnt); err != nil {
		t.Fatal(err)
	}
	if cnt != 1 {
		t.Fatalf("ожидали одну строку результата, получили %d", cnt)
	}
}

func TestExamFlow_DeleteCascades(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedStudent(ctx, t, h)

	examID, err := db.CreateExam(ctx, h.DB, models.Exam{Name: "ปลายภาค", SubjectCode: "MATH1", Semester: "1/2567"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertQuestions(ctx, h.DB, examID, []models.Question{
		{Text: "q", ChoiceA: "a", ChoiceB: "b", ChoiceC: "c", ChoiceD: "d", Correct: "A"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveAttempt(ctx, h.DB, models.Attempt{
		ExamID: examID, StudentID: "6512345678", Score: 1, TotalScore: 1, SubmittedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteExam(ctx, h.DB, examID); err != nil {
		t.Fatal(err)
	}

	if _, err := db.GetAttempt(ctx, h.DB, examID, "6512345678"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound после каскадного удаления, получили %v", err)
	}
	if n, err := db.CountQuestions(ctx, h.DB, examID); err != nil || n != 0 {
		t.Fatalf("ожидали 0 вопросов, получили %d (err=%v)", n, err)
	}
}

func TestBulkReplace_SecondImportWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedStudent(ctx, t, h)

	// вторая выгрузка полностью заменяет первую
	snap := &db.LegacySnapshot{
		Students: []models.Student{{ID: "6599999999", Name: "ใหม่", GroupCode: "G02", Level: "unknown"}},
		Groups:   []models.Group{{Code: "G02", TeacherName: "ครูใหม่"}},
	}
	if err := db.ReplaceLegacyTables(ctx, h.DB, snap); err != nil {
		t.Fatal(err)
	}

	if _, err := db.GetStudent(ctx, h.DB, "6512345678"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("старый студент должен исчезнуть, получили %v", err)
	}
	if _, err := db.GetStudent(ctx, h.DB, "6599999999"); err != nil {
		t.Fatal(err)
	}
}
