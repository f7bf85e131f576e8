package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func grade(sub, val string) models.Grade {
	return models.Grade{StudentID: "6511234567", SubjectCode: sub, Semester: "1/2568", Grade: val}
}

func activeExam(id int64, sub string) models.Exam {
	return models.Exam{ID: id, Name: "Final " + sub, SubjectCode: sub, Semester: "1/2568", IsActive: true}
}

func TestEligible_RegisteredWithoutGrade(t *testing.T) {
	grades := []models.Grade{grade("MATH1", "")}
	exams := []models.Exam{activeExam(1, "MATH1")}

	got := Eligible(grades, exams)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestEligible_GradedSubjectHidden(t *testing.T) {
	grades := []models.Grade{grade("MATH1", "3")}
	exams := []models.Exam{activeExam(1, "MATH1")}

	assert.Empty(t, Eligible(grades, exams))
}

func TestEligible_NotRegisteredHidden(t *testing.T) {
	// активность экзамена не спасает: без строки оценок предмет невидим
	grades := []models.Grade{grade("SCI2", "")}
	exams := []models.Exam{activeExam(1, "MATH1")}

	assert.Empty(t, Eligible(grades, exams))
}

func TestEligible_NoGradesAtAll(t *testing.T) {
	exams := []models.Exam{activeExam(1, "MATH1"), activeExam(2, "SCI2")}
	assert.Empty(t, Eligible(nil, exams))
}

func TestGradedSubjects_NullLikeStringsAreEmpty(t *testing.T) {
	// импорт мог превратить пропуски в "nan"/"none" — это не оценка
	grades := []models.Grade{
		grade("MATH1", "nan"),
		grade("SCI2", "NaN"),
		grade("ENG3", "None"),
		grade("ART4", " 2 "),
	}
	graded := GradedSubjects(grades)
	assert.NotContains(t, graded, "MATH1")
	assert.NotContains(t, graded, "SCI2")
	assert.NotContains(t, graded, "ENG3")
	assert.Contains(t, graded, "ART4")
}

func TestEligible_TrimsSubjectCodes(t *testing.T) {
	grades := []models.Grade{grade(" MATH1 ", "")}
	exams := []models.Exam{activeExam(1, "MATH1 ")}

	assert.Len(t, Eligible(grades, exams), 1)
}
