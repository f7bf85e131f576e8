package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func q(id int64, correct string) models.Question {
	return models.Question{
		ID:      id,
		ExamID:  1,
		Text:    "?",
		ChoiceA: "ans A",
		ChoiceB: "ans B",
		ChoiceC: "ans C",
		ChoiceD: "ans D",
		Correct: correct,
	}
}

func TestScore_CountsTextMatches(t *testing.T) {
	// ключ B, A, D; студент отвечает B, C, D → 2 из 3
	questions := []models.Question{q(1, "B"), q(2, "A"), q(3, "D")}
	answers := map[int64]string{1: "ans B", 2: "ans C", 3: "ans D"}

	score, total := Score(questions, answers)
	assert.Equal(t, 2, score)
	assert.Equal(t, 3, total)
}

func TestScore_TrimsButKeepsCase(t *testing.T) {
	questions := []models.Question{q(1, "A"), q(2, "A")}
	answers := map[int64]string{
		1: "  ans A  ", // пробелы по краям не мешают
		2: "ANS A",     // регистр — мешает, политика исходника сохранена
	}

	score, _ := Score(questions, answers)
	assert.Equal(t, 1, score)
}

func TestScore_EmptyAnswerNeverMatches(t *testing.T) {
	bad := q(1, "X") // сломанная буква → пустой правильный текст
	score, total := Score([]models.Question{bad}, map[int64]string{1: ""})
	assert.Equal(t, 0, score)
	assert.Equal(t, 1, total)
}

func TestCorrectText_ResolvesLetter(t *testing.T) {
	question := q(1, " b ")
	assert.Equal(t, "ans B", question.CorrectText())
}

func TestAnswered(t *testing.T) {
	questions := []models.Question{q(1, "A"), q(2, "B"), q(3, "C")}
	answers := map[int64]string{1: "ans A", 2: "   ", 3: "ans C"}
	assert.Equal(t, 2, Answered(questions, answers))
}
