package export

import (
	"fmt"
	"strconv"

	"github.com/Spok95/school-exam-portal/internal/report"
)

// AttendanceWorkbook — отчёт посещаемости экзаменов: сводка и разбивка по
// группам в колонках уровней, как в бумажной форме.
func AttendanceWorkbook(rep report.Attendance) (*Workbook, error) {
	summary := SheetSpec{
		Title:  "Summary",
		Header: []string{"Term", "Registered", "Attempted", "Absent", "Percent"},
		Rows: [][]string{{
			rep.Term,
			strconv.Itoa(rep.Registered),
			strconv.Itoa(rep.Attempted),
			strconv.Itoa(rep.Absent),
			fmt.Sprintf("%.1f%%", rep.Percent),
		}},
	}

	groups := SheetSpec{
		Title: "Groups",
		Header: []string{
			"Group", "Teacher",
			"Primary", "Lower Secondary", "Upper Secondary", "Unknown",
			"Total", "Attended", "Absent", "Percent",
		},
	}
	for _, g := range rep.Groups {
		groups.Rows = append(groups.Rows, []string{
			g.GroupCode,
			g.TeacherName,
			strconv.Itoa(g.Primary.Total),
			strconv.Itoa(g.LowerSecondary.Total),
			strconv.Itoa(g.UpperSecondary.Total),
			strconv.Itoa(g.Unknown.Total),
			strconv.Itoa(g.Total.Total),
			strconv.Itoa(g.Total.Attended),
			strconv.Itoa(g.Total.Absent),
			fmt.Sprintf("%.1f%%", g.Percent),
		})
	}

	return NewWorkbook([]SheetSpec{summary, groups})
}

func AttendanceFilename(term string) string {
	return sanitizeFileName(fmt.Sprintf("attendance_%s.xlsx", term))
}

// MatrixWorkbook — сводная «студент × предмет» для группы.
func MatrixWorkbook(groupCode string, m report.Matrix) (*Workbook, error) {
	title := "Scores"
	if groupCode != "" {
		title = sanitizeFileName(groupCode)
	}
	sheet := SheetSpec{
		Title:  title,
		Header: append([]string{"Student ID", "Name"}, m.Columns...),
	}
	for _, r := range m.Rows {
		row := []string{r.StudentID, r.FullName}
		for _, col := range m.Columns {
			if score, ok := r.Scores[col]; ok {
				row = append(row, strconv.Itoa(score))
			} else {
				row = append(row, "")
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return NewWorkbook([]SheetSpec{sheet})
}

func MatrixFilename(groupCode string) string {
	return sanitizeFileName(fmt.Sprintf("scores_%s.xlsx", groupCode))
}
