package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-exam-portal/internal/models"
)

// LegacySnapshot — распарсенный архив выгрузки: содержимое шести таблиц плюс
// учительские аккаунты, заведённые по группам.
type LegacySnapshot struct {
	Students   []models.Student
	Grades     []models.Grade
	Schedule   []models.ScheduleEntry
	Subjects   []models.Subject
	Activities []models.Activity
	Groups     []models.Group
	// TeacherUsers создаются с bcrypt-хэшем; существующие аккаунты не перетираются.
	TeacherUsers []models.User
}

// ReplaceLegacyTables заменяет данные выгрузки целиком в одной транзакции:
// упавший импорт откатывается и не оставляет базу «вычищенной, но пустой».
func ReplaceLegacyTables(ctx context.Context, database *sql.DB, snap *LegacySnapshot) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"grades", "schedule", "subjects", "activities", "students", "groups"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, s := range snap.Students {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO students (std_id, prefix, name, surname, grp_code, phone, card_id, level)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (std_id) DO UPDATE
SET prefix = EXCLUDED.prefix, name = EXCLUDED.name, surname = EXCLUDED.surname,
    grp_code = EXCLUDED.grp_code, phone = EXCLUDED.phone, card_id = EXCLUDED.card_id,
    level = EXCLUDED.level`,
			s.ID, s.Prefix, s.Name, s.Surname, s.GroupCode, s.Phone, s.CardID, s.Level); err != nil {
			return fmt.Errorf("insert student %s: %w", s.ID, err)
		}
	}
	for _, g := range snap.Grades {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO grades (std_id, sub_code, semestry, grade, grp_code) VALUES ($1, $2, $3, $4, $5)`,
			g.StudentID, g.SubjectCode, g.Semester, g.Grade, g.GroupCode); err != nil {
			return fmt.Errorf("insert grade: %w", err)
		}
	}
	for _, e := range snap.Schedule {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO schedule (sub_code, semestry, exam_day, exam_start, exam_end) VALUES ($1, $2, $3, $4, $5)`,
			e.SubjectCode, e.Semester, e.ExamDay, e.ExamStart, e.ExamEnd); err != nil {
			return fmt.Errorf("insert schedule: %w", err)
		}
	}
	for _, s := range snap.Subjects {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO subjects (sub_code, sub_name) VALUES ($1, $2)
ON CONFLICT (sub_code) DO UPDATE SET sub_name = EXCLUDED.sub_name`,
			s.Code, s.Name); err != nil {
			return fmt.Errorf("insert subject %s: %w", s.Code, err)
		}
	}
	for _, a := range snap.Activities {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO activities (std_id, semestry, act_name, act_type, hours) VALUES ($1, $2, $3, $4, $5)`,
			a.StudentID, a.Semester, a.Name, a.Type, a.Hours); err != nil {
			return fmt.Errorf("insert activity: %w", err)
		}
	}
	for _, g := range snap.Groups {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO groups (grp_code, teacher_name) VALUES ($1, $2)
ON CONFLICT (grp_code) DO UPDATE SET teacher_name = EXCLUDED.teacher_name`,
			g.Code, g.TeacherName); err != nil {
			return fmt.Errorf("insert group %s: %w", g.Code, err)
		}
	}
	for _, u := range snap.TeacherUsers {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO users (username, password_hash, role, name, assigned_group)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (username) DO NOTHING`,
			u.Username, u.PasswordHash, u.Role, u.Name, u.AssignedGroup); err != nil {
			return fmt.Errorf("insert user %s: %w", u.Username, err)
		}
	}

	return tx.Commit()
}
