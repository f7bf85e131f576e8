package report

import (
	"sort"

	"github.com/Spok95/school-exam-portal/internal/identity"
)

// RegisteredStudent — одна строка на студента, зарегистрированного в терме:
// группа и один из его кодов предметов. Уровень для этого отчёта выводится
// из кода предмета, а не из кода студента — источники разные, см. identity.
type RegisteredStudent struct {
	StudentID   string
	GroupCode   string
	SubjectCode string
}

type LevelCells struct {
	Total    int `json:"total"`
	Attended int `json:"attended"`
	Absent   int `json:"absent"`
}

func (c *LevelCells) add(attended bool) {
	c.Total++
	if attended {
		c.Attended++
	} else {
		c.Absent++
	}
}

// GroupRow — по группе: разбивка по уровням плюс явная колонка Unknown,
// чтобы сумма колонок всегда равнялась итогу группы.
type GroupRow struct {
	GroupCode      string     `json:"group_code"`
	TeacherName    string     `json:"teacher_name"`
	Primary        LevelCells `json:"primary"`
	LowerSecondary LevelCells `json:"lower_secondary"`
	UpperSecondary LevelCells `json:"upper_secondary"`
	Unknown        LevelCells `json:"unknown"`
	Total          LevelCells `json:"total"`
	Percent        float64    `json:"percent"`
}

type Attendance struct {
	Term       string     `json:"term"`
	Registered int        `json:"registered"`
	Attempted  int        `json:"attempted"`
	Absent     int        `json:"absent"`
	Percent    float64    `json:"percent"`
	Groups     []GroupRow `json:"groups"`
}

// BuildAttendance сворачивает регистрации терма и множество когда-либо сдававших
// студентов в отчёт посещаемости. Попытки в хранилище не привязаны к терму,
// поэтому «сдавал в терме X» приближается как «зарегистрирован в X и сдавал хоть раз».
func BuildAttendance(term string, regs []RegisteredStudent, attempted map[string]struct{}, teacherByGroup map[string]string) Attendance {
	rep := Attendance{Term: term}
	byGroup := make(map[string]*GroupRow)

	for _, r := range regs {
		_, att := attempted[r.StudentID]
		rep.Registered++
		if att {
			rep.Attempted++
		}

		row, ok := byGroup[r.GroupCode]
		if !ok {
			row = &GroupRow{GroupCode: r.GroupCode, TeacherName: teacherByGroup[r.GroupCode]}
			byGroup[r.GroupCode] = row
		}
		switch identity.LevelFromSubjectCode(r.SubjectCode) {
		case identity.Primary:
			row.Primary.add(att)
		case identity.LowerSecondary:
			row.LowerSecondary.add(att)
		case identity.UpperSecondary:
			row.UpperSecondary.add(att)
		default:
			row.Unknown.add(att)
		}
		row.Total.add(att)
	}

	rep.Absent = rep.Registered - rep.Attempted
	rep.Percent = percent(rep.Attempted, rep.Registered)

	for _, row := range byGroup {
		row.Percent = percent(row.Total.Attended, row.Total.Total)
		rep.Groups = append(rep.Groups, *row)
	}
	sort.Slice(rep.Groups, func(i, j int) bool {
		return rep.Groups[i].GroupCode < rep.Groups[j].GroupCode
	})
	return rep
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
