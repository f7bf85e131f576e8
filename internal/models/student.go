package models

import "github.com/Spok95/school-exam-portal/internal/identity"

type Student struct {
	ID        string         `db:"std_id"`
	Prefix    string         `db:"prefix"`
	Name      string         `db:"name"`
	Surname   string         `db:"surname"`
	GroupCode string         `db:"grp_code"`
	Phone     string         `db:"phone"`
	CardID    string         `db:"card_id"`
	Level     identity.Level `db:"level"`
}

func (s Student) FullName() string {
	return s.Prefix + s.Name + " " + s.Surname
}

// Grade — запись об оценке. Непустое значение Grade означает «оценка уже
// выставлена» для фильтра допуска, а не «сдал/не сдал».
type Grade struct {
	StudentID   string `db:"std_id"`
	SubjectCode string `db:"sub_code"`
	Semester    string `db:"semestry"`
	Grade       string `db:"grade"`
	GroupCode   string `db:"grp_code"`
}

type Subject struct {
	Code string `db:"sub_code"`
	Name string `db:"sub_name"`
}

type Group struct {
	Code        string `db:"grp_code"`
	TeacherName string `db:"teacher_name"`
}

type ScheduleEntry struct {
	SubjectCode string `db:"sub_code"`
	SubjectName string `db:"sub_name"`
	Semester    string `db:"semestry"`
	ExamDay     string `db:"exam_day"`
	ExamStart   string `db:"exam_start"`
	ExamEnd     string `db:"exam_end"`
}

type Activity struct {
	StudentID string  `db:"std_id"`
	Semester  string  `db:"semestry"`
	Name      string  `db:"act_name"`
	Type      string  `db:"act_type"`
	Hours     float64 `db:"hours"`
}
