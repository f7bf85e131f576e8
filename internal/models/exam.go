package models

import (
	"strings"
	"time"
)

type Exam struct {
	ID          int64  `db:"exam_id"`
	Name        string `db:"exam_name"`
	SubjectCode string `db:"sub_code"`
	Semester    string `db:"semestry"`
	IsActive    bool   `db:"is_active"`
}

type Question struct {
	ID      int64  `db:"id"`
	ExamID  int64  `db:"exam_id"`
	Text    string `db:"question_text"`
	ChoiceA string `db:"choice_a"`
	ChoiceB string `db:"choice_b"`
	ChoiceC string `db:"choice_c"`
	ChoiceD string `db:"choice_d"`
	Correct string `db:"correct_answer"` // одна из букв A..D
}

// Choices — варианты для показа студенту; пустые тексты скрываются,
// но на проверку правильности это не влияет.
func (q Question) Choices() []string {
	out := make([]string, 0, 4)
	for _, c := range []string{q.ChoiceA, q.ChoiceB, q.ChoiceC, q.ChoiceD} {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

// CorrectText — текст правильного варианта по сохранённой букве.
// Сверка ответа идёт по тексту: студент видит только тексты.
func (q Question) CorrectText() string {
	switch strings.ToUpper(strings.TrimSpace(q.Correct)) {
	case "A":
		return q.ChoiceA
	case "B":
		return q.ChoiceB
	case "C":
		return q.ChoiceC
	case "D":
		return q.ChoiceD
	}
	return ""
}

// Attempt — единственная сохранённая попытка на пару (exam, student);
// пересдача заменяет её целиком.
type Attempt struct {
	ID          int64     `db:"id"`
	ExamID      int64     `db:"exam_id"`
	StudentID   string    `db:"std_id"`
	Score       int       `db:"score"`
	TotalScore  int       `db:"total_score"`
	SubmittedAt time.Time `db:"submitted_at"`
}

type ClassroomVideo struct {
	ID          int64     `db:"vid_id"`
	SubjectCode string    `db:"sub_code"`
	TopicName   string    `db:"topic_name"`
	VideoURL    string    `db:"video_url"`
	CreatedAt   time.Time `db:"created_at"`
}

type TutoringVideo struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	VideoURL    string    `db:"video_url"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
