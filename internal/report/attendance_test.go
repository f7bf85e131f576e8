package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAttendance_Percent(t *testing.T) {
	// 10 зарегистрированных, 6 сдавали → 60.00%
	var regs []RegisteredStudent
	attempted := map[string]struct{}{}
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		regs = append(regs, RegisteredStudent{StudentID: id, GroupCode: "G1", SubjectCode: "MA11001"})
		if i < 6 {
			attempted[id] = struct{}{}
		}
	}

	rep := BuildAttendance("1/2568", regs, attempted, map[string]string{"G1": "T. Somchai"})
	assert.Equal(t, 10, rep.Registered)
	assert.Equal(t, 6, rep.Attempted)
	assert.Equal(t, 4, rep.Absent)
	assert.InDelta(t, 60.0, rep.Percent, 0.001)
}

func TestBuildAttendance_EmptyTermNoDivideByZero(t *testing.T) {
	rep := BuildAttendance("1/2568", nil, nil, nil)
	assert.Equal(t, 0, rep.Registered)
	assert.Equal(t, 0.0, rep.Percent)
	assert.Empty(t, rep.Groups)
}

func TestBuildAttendance_LevelBucketsFromSubjectCode(t *testing.T) {
	regs := []RegisteredStudent{
		{StudentID: "s1", GroupCode: "G1", SubjectCode: "MA11001"}, // 1 → primary
		{StudentID: "s2", GroupCode: "G1", SubjectCode: "MA21001"}, // 2 → lower-secondary
		{StudentID: "s3", GroupCode: "G1", SubjectCode: "MA31001"}, // 3 → upper-secondary
		{StudentID: "s4", GroupCode: "G1", SubjectCode: "ART"},     // без цифры → unknown
	}
	attempted := map[string]struct{}{"s1": {}, "s3": {}}

	rep := BuildAttendance("1/2568", regs, attempted, nil)
	if assert.Len(t, rep.Groups, 1) {
		g := rep.Groups[0]
		assert.Equal(t, LevelCells{Total: 1, Attended: 1, Absent: 0}, g.Primary)
		assert.Equal(t, LevelCells{Total: 1, Attended: 0, Absent: 1}, g.LowerSecondary)
		assert.Equal(t, LevelCells{Total: 1, Attended: 1, Absent: 0}, g.UpperSecondary)
		assert.Equal(t, LevelCells{Total: 1, Attended: 0, Absent: 1}, g.Unknown)

		// явная колонка Unknown: сумма колонок равна итогу группы
		sum := g.Primary.Total + g.LowerSecondary.Total + g.UpperSecondary.Total + g.Unknown.Total
		assert.Equal(t, g.Total.Total, sum)
		assert.InDelta(t, 50.0, g.Percent, 0.001)
	}
}

func TestBuildAttendance_GroupRollupsSumToOverall(t *testing.T) {
	regs := []RegisteredStudent{
		{StudentID: "s1", GroupCode: "G1", SubjectCode: "MA11001"},
		{StudentID: "s2", GroupCode: "G2", SubjectCode: "MA21001"},
		{StudentID: "s3", GroupCode: "G2", SubjectCode: "MA31001"},
	}
	rep := BuildAttendance("1/2568", regs, map[string]struct{}{"s2": {}}, nil)

	total := 0
	attended := 0
	for _, g := range rep.Groups {
		total += g.Total.Total
		attended += g.Total.Attended
	}
	assert.Equal(t, rep.Registered, total)
	assert.Equal(t, rep.Attempted, attended)
}

func TestBuildMatrix(t *testing.T) {
	rows := []ResultRow{
		{StudentID: "s2", FullName: "B", SubjectCode: "MA11001", Score: 5, TotalScore: 10},
		{StudentID: "s1", FullName: "A", SubjectCode: "MA11001", Score: 7, TotalScore: 10},
		{StudentID: "s1", FullName: "A", SubjectCode: "TH11001", Score: 9, TotalScore: 10},
	}
	m := BuildMatrix(rows)
	assert.Equal(t, []string{"MA11001 (of 10)", "TH11001 (of 10)"}, m.Columns)
	if assert.Len(t, m.Rows, 2) {
		assert.Equal(t, "s1", m.Rows[0].StudentID)
		assert.Equal(t, 7, m.Rows[0].Scores["MA11001 (of 10)"])
		assert.Equal(t, 9, m.Rows[0].Scores["TH11001 (of 10)"])
		assert.Equal(t, "s2", m.Rows[1].StudentID)
	}
}
