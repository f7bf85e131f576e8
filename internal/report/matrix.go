package report

import (
	"fmt"
	"sort"
)

// ResultRow — сырой результат с данными студента и экзамена, как отдаёт БД.
type ResultRow struct {
	StudentID   string
	FullName    string
	GroupCode   string
	SubjectCode string
	ExamName    string
	Score       int
	TotalScore  int
}

// Matrix — сводная «студент × предмет» по последним попыткам группы.
type Matrix struct {
	Columns []string    `json:"columns"` // подписи предметов с максимумом баллов
	Rows    []MatrixRow `json:"rows"`
}

type MatrixRow struct {
	StudentID string         `json:"student_id"`
	FullName  string         `json:"full_name"`
	Scores    map[string]int `json:"scores"` // колонка → балл
}

// BuildMatrix пивотит результаты так же, как сводная таблица учителя:
// колонка — предмет с полным баллом, ячейка — лучший балл студента.
func BuildMatrix(rows []ResultRow) Matrix {
	colSet := make(map[string]struct{})
	byStudent := make(map[string]*MatrixRow)

	for _, r := range rows {
		col := fmt.Sprintf("%s (of %d)", r.SubjectCode, r.TotalScore)
		colSet[col] = struct{}{}

		mr, ok := byStudent[r.StudentID]
		if !ok {
			mr = &MatrixRow{StudentID: r.StudentID, FullName: r.FullName, Scores: make(map[string]int)}
			byStudent[r.StudentID] = mr
		}
		if prev, ok := mr.Scores[col]; !ok || r.Score > prev {
			mr.Scores[col] = r.Score
		}
	}

	m := Matrix{}
	for col := range colSet {
		m.Columns = append(m.Columns, col)
	}
	sort.Strings(m.Columns)
	for _, mr := range byStudent {
		m.Rows = append(m.Rows, *mr)
	}
	sort.Slice(m.Rows, func(i, j int) bool { return m.Rows[i].StudentID < m.Rows[j].StudentID })
	return m
}
