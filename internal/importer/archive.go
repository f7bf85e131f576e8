package importer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/identity"
	"github.com/Spok95/school-exam-portal/internal/models"
)

// Тип активности в выгрузке один, колонки под него нет.
const activityType = "กพช."

// ParseArchive читает zip с DBF-файлами выгрузки и собирает снимок для
// транзакционной замены. Файлы распознаются по ключевым словам в имени;
// прочее содержимое архива игнорируется. Нечитаемый DBF или отсутствие
// обязательной колонки валят весь импорт — база остаётся прежней.
func ParseArchive(data []byte) (*db.LegacySnapshot, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	snap := &db.LegacySnapshot{}
	seenTeachers := make(map[string]struct{})

	for _, zf := range zr.File {
		if !strings.HasSuffix(strings.ToLower(zf.Name), ".dbf") {
			continue
		}
		table, err := readTable(zf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", zf.Name, err)
		}

		fn := strings.ToLower(zf.Name)
		switch {
		case strings.Contains(fn, "student") || strings.Contains(fn, "reg"):
			if !table.Has("STD_CODE", "ID") {
				return nil, fmt.Errorf("%s: no STD_CODE/ID column", zf.Name)
			}
			for _, r := range table.Records {
				sid := identity.Normalize(r.Get("STD_CODE", "ID"))
				if sid == "" {
					continue
				}
				snap.Students = append(snap.Students, models.Student{
					ID:        sid,
					Prefix:    r.Get("PRENAME"),
					Name:      r.Get("NAME"),
					Surname:   r.Get("SURNAME"),
					GroupCode: r.Get("GRP_CODE"),
					Phone:     r.Get("PHONE"),
					CardID:    identity.Clean(r.Get("CARDID")),
					Level:     identity.LevelFromStudentID(sid),
				})
			}
		case strings.Contains(fn, "grade"):
			if !table.Has("STD_CODE") {
				return nil, fmt.Errorf("%s: no STD_CODE column", zf.Name)
			}
			for _, r := range table.Records {
				snap.Grades = append(snap.Grades, models.Grade{
					StudentID:   identity.Normalize(r.Get("STD_CODE")),
					SubjectCode: strings.TrimSpace(r.Get("SUB_CODE")),
					Semester:    r.Get("SEMESTRY"),
					Grade:       r.Get("GRADE"),
					GroupCode:   r.Get("GRP_CODE"),
				})
			}
		case strings.Contains(fn, "activit"):
			for _, r := range table.Records {
				hours, _ := strconv.ParseFloat(r.Get("HOUR"), 64)
				snap.Activities = append(snap.Activities, models.Activity{
					StudentID: identity.Normalize(r.Get("STD_CODE")),
					Semester:  r.Get("SEMESTRY"),
					Name:      r.Get("ACT_NAME", "ACTIVITY", "NAME"),
					Type:      activityType,
					Hours:     hours,
				})
			}
		case strings.Contains(fn, "group"):
			for _, r := range table.Records {
				gc := strings.TrimSpace(r.Get("GRP_CODE"))
				tn := strings.TrimSpace(r.Get("TEACHER_NAME", "GRP_ADVIS"))
				if gc == "" {
					continue
				}
				snap.Groups = append(snap.Groups, models.Group{Code: gc, TeacherName: tn})
				if _, ok := seenTeachers[gc]; ok {
					continue
				}
				seenTeachers[gc] = struct{}{}
				// Стартовый пароль учителя — код группы; хранится только хэш.
				hash, err := bcrypt.GenerateFromPassword([]byte(gc), bcrypt.DefaultCost)
				if err != nil {
					return nil, fmt.Errorf("hash teacher password: %w", err)
				}
				snap.TeacherUsers = append(snap.TeacherUsers, models.User{
					Username:      gc,
					PasswordHash:  string(hash),
					Role:          models.Teacher,
					Name:          tn,
					AssignedGroup: gc,
				})
			}
		case strings.Contains(fn, "schedule"):
			for _, r := range table.Records {
				snap.Schedule = append(snap.Schedule, models.ScheduleEntry{
					SubjectCode: r.Get("SUB_CODE"),
					Semester:    r.Get("SEMESTRY"),
					ExamDay:     r.Get("EXAM_DAY"),
					ExamStart:   r.Get("EXAM_START"),
					ExamEnd:     r.Get("EXAM_END"),
				})
			}
		case strings.Contains(fn, "subject"):
			for _, r := range table.Records {
				snap.Subjects = append(snap.Subjects, models.Subject{
					Code: r.Get("SUB_CODE"),
					Name: r.Get("SUB_NAME"),
				})
			}
		}
	}

	if len(snap.Students) == 0 {
		return nil, fmt.Errorf("archive contains no student records")
	}
	return snap, nil
}

func readTable(zf *zip.File) (*Table, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return ParseDBF(data)
}
