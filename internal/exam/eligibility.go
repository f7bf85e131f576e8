package exam

import (
	"strings"

	"github.com/Spok95/school-exam-portal/internal/models"
)

// RegisteredSubjects — предметы, по которым у студента есть хоть одна строка оценок.
func RegisteredSubjects(grades []models.Grade) map[string]struct{} {
	out := make(map[string]struct{}, len(grades))
	for _, g := range grades {
		out[strings.TrimSpace(g.SubjectCode)] = struct{}{}
	}
	return out
}

// GradedSubjects — предметы с уже выставленной оценкой. Строки "nan"/"none"
// (в любом регистре) считаются пустыми: импорт мог так закодировать отсутствие
// значения. Фильтр обязан совпадать с этим правилом буква в букву.
func GradedSubjects(grades []models.Grade) map[string]struct{} {
	out := make(map[string]struct{})
	for _, g := range grades {
		v := strings.TrimSpace(g.Grade)
		if v == "" {
			continue
		}
		if lv := strings.ToLower(v); lv == "nan" || lv == "none" {
			continue
		}
		out[strings.TrimSpace(g.SubjectCode)] = struct{}{}
	}
	return out
}

// Eligible отбирает из активных экзаменов те, что доступны студенту:
// предмет зарегистрирован и оценка ещё не выставлена. Чистая функция,
// пересчитывается на каждый показ списка.
func Eligible(grades []models.Grade, active []models.Exam) []models.Exam {
	registered := RegisteredSubjects(grades)
	graded := GradedSubjects(grades)

	var out []models.Exam
	for _, e := range active {
		code := strings.TrimSpace(e.SubjectCode)
		if _, ok := registered[code]; !ok {
			continue
		}
		if _, ok := graded[code]; ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
