package exam

import (
	"strings"

	"github.com/Spok95/school-exam-portal/internal/models"
)

// Score считает результат по ключу. Правильный ответ разворачивается из буквы
// в текст варианта, сверка — точное совпадение текстов после обрезки пробелов,
// с учётом регистра (менять политику регистра нельзя: это тихо сдвинет проходимость).
func Score(questions []models.Question, answers map[int64]string) (score, total int) {
	total = len(questions)
	for _, q := range questions {
		correct := strings.TrimSpace(q.CorrectText())
		got := strings.TrimSpace(answers[q.ID])
		if got != "" && got == correct {
			score++
		}
	}
	return score, total
}

// Answered — сколько вопросов получили непустой ответ.
func Answered(questions []models.Question, answers map[int64]string) int {
	n := 0
	for _, q := range questions {
		if strings.TrimSpace(answers[q.ID]) != "" {
			n++
		}
	}
	return n
}
