package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-exam-portal/internal/report"
)

func TestAttendanceWorkbook(t *testing.T) {
	rep := report.Attendance{
		Term:       "1/2567",
		Registered: 10,
		Attempted:  6,
		Absent:     4,
		Percent:    60,
		Groups: []report.GroupRow{
			{
				GroupCode:   "G01",
				TeacherName: "ครูสมศรี",
				Primary:     report.LevelCells{Total: 4, Attended: 3, Absent: 1},
				Total:       report.LevelCells{Total: 4, Attended: 3, Absent: 1},
				Percent:     75,
			},
		},
	}

	wb, err := AttendanceWorkbook(rep)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = wb.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Groups"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1/2567", "10", "6", "4", "60.0%"}, rows[1])

	rows, err = f.GetRows("Groups")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "G01", rows[1][0])
	assert.Equal(t, "75.0%", rows[1][9])
}

func TestMatrixWorkbook(t *testing.T) {
	m := report.Matrix{
		Columns: []string{"MATH1 (of 3)", "SCI1 (of 5)"},
		Rows: []report.MatrixRow{
			{StudentID: "6512345678", FullName: "นายสมชาย ใจดี",
				Scores: map[string]int{"MATH1 (of 3)": 2}},
		},
	}

	wb, err := MatrixWorkbook("G01", m)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = wb.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("G01")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Student ID", "Name", "MATH1 (of 3)", "SCI1 (of 5)"}, rows[0])
	assert.Equal(t, "2", rows[1][2])
	// пустая ячейка в конце строки может отбрасываться при чтении
	if len(rows[1]) > 3 {
		assert.Equal(t, "", rows[1][3])
	}
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "attendance_1_2567.xlsx", AttendanceFilename("1/2567"))
	assert.Equal(t, "scores_G01.xlsx", MatrixFilename("G01"))
}
