package importer

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/school-exam-portal/internal/identity"
)

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseArchive(t *testing.T) {
	students := buildDBF(t,
		[]string{"STD_CODE", "PRENAME", "NAME", "SURNAME", "GRP_CODE", "PHONE", "CARDID"},
		[]int{13, 10, 20, 20, 8, 12, 17},
		[][]string{
			{"006712100042", "นาย", "สมชาย", "ใจดี", "G01", "0812345678", "1-2345-67890-12-3"},
			{"", "", "", "", "", "", ""}, // пустой id пропускается
		})
	grades := buildDBF(t,
		[]string{"STD_CODE", "SUB_CODE", "SEMESTRY", "GRADE", "GRP_CODE"},
		[]int{13, 10, 6, 4, 8},
		[][]string{{"006712100042", " MATH1 ", "1/2567", "", "G01"}})
	groups := buildDBF(t,
		[]string{"GRP_CODE", "GRP_ADVIS"},
		[]int{8, 30},
		[][]string{{"G01", "ครูสมศรี"}, {"G01", "ครูสมศรี"}})
	subjects := buildDBF(t,
		[]string{"SUB_CODE", "SUB_NAME"},
		[]int{10, 40},
		[][]string{{"MATH1", "คณิตศาสตร์"}})
	schedule := buildDBF(t,
		[]string{"SUB_CODE", "SEMESTRY", "EXAM_DAY", "EXAM_START", "EXAM_END"},
		[]int{10, 6, 12, 6, 6},
		[][]string{{"MATH1", "1/2567", "2024-09-15", "09:00", "11:00"}})
	activities := buildDBF(t,
		[]string{"STD_CODE", "SEMESTRY", "ACTIVITY", "HOUR"},
		[]int{13, 6, 30, 6},
		[][]string{{"006712100042", "1/2567", "ค่ายอาสา", "12.5"}})

	data := buildZip(t, map[string][]byte{
		"STUDENT.DBF":   students,
		"grade.dbf":     grades,
		"GROUP.dbf":     groups,
		"subject.DBF":   subjects,
		"schedule.dbf":  schedule,
		"activity.dbf":  activities,
		"readme.txt":    []byte("ignored"),
		"photo/pic.jpg": []byte{0xFF, 0xD8},
	})

	snap, err := ParseArchive(data)
	require.NoError(t, err)

	require.Len(t, snap.Students, 1)
	s := snap.Students[0]
	assert.Equal(t, "6712100042", s.ID) // последние 10 цифр
	assert.Equal(t, "สมชาย", s.Name)
	assert.Equal(t, identity.LowerSecondary, s.Level) // 4-я цифра канонического id
	assert.Equal(t, "1234567890123", s.CardID)

	require.Len(t, snap.Grades, 1)
	assert.Equal(t, "6712100042", snap.Grades[0].StudentID)
	assert.Equal(t, "MATH1", snap.Grades[0].SubjectCode)

	assert.Len(t, snap.Groups, 2)
	require.Len(t, snap.TeacherUsers, 1) // дубликат группы не плодит аккаунт
	u := snap.TeacherUsers[0]
	assert.Equal(t, "G01", u.Username)
	assert.Equal(t, "G01", u.AssignedGroup)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("G01")))

	require.Len(t, snap.Subjects, 1)
	assert.Equal(t, "คณิตศาสตร์", snap.Subjects[0].Name)
	require.Len(t, snap.Schedule, 1)
	require.Len(t, snap.Activities, 1)
	assert.Equal(t, 12.5, snap.Activities[0].Hours)
	assert.Equal(t, "กพช.", snap.Activities[0].Type)
}

func TestParseArchiveStudentAliasID(t *testing.T) {
	students := buildDBF(t, []string{"ID", "NAME"}, []int{13, 20},
		[][]string{{"006712100042", "Somchai"}})
	data := buildZip(t, map[string][]byte{"REG2567.DBF": students})

	snap, err := ParseArchive(data)
	require.NoError(t, err)
	require.Len(t, snap.Students, 1)
	assert.Equal(t, "6712100042", snap.Students[0].ID)
}

func TestParseArchiveMissingColumnFails(t *testing.T) {
	students := buildDBF(t, []string{"NAME"}, []int{20}, [][]string{{"Somchai"}})
	data := buildZip(t, map[string][]byte{"student.dbf": students})

	_, err := ParseArchive(data)
	assert.ErrorContains(t, err, "STD_CODE")
}

func TestParseArchiveCorruptDBFFails(t *testing.T) {
	data := buildZip(t, map[string][]byte{"student.dbf": []byte("garbage")})
	_, err := ParseArchive(data)
	assert.Error(t, err)
}

func TestParseArchiveEmptyFails(t *testing.T) {
	data := buildZip(t, map[string][]byte{"notes.txt": []byte("nothing here")})
	_, err := ParseArchive(data)
	assert.Error(t, err)
}
