package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func AddClassroomVideo(ctx context.Context, database *sql.DB, v models.ClassroomVideo) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO classroom_videos (sub_code, topic_name, video_url)
VALUES ($1, $2, $3)
RETURNING vid_id`, v.SubjectCode, v.TopicName, v.VideoURL).Scan(&id)
	return id, err
}

func ListClassroomVideos(ctx context.Context, database *sql.DB) ([]models.ClassroomVideo, error) {
	return queryClassroomVideos(ctx, database, `
SELECT vid_id, sub_code, topic_name, video_url, created_at
FROM classroom_videos ORDER BY sub_code, vid_id`)
}

// ClassroomVideosForStudent — ролики только по предметам, на которые студент
// зарегистрирован в семестре.
func ClassroomVideosForStudent(ctx context.Context, database *sql.DB, stdID, semester string) ([]models.ClassroomVideo, error) {
	return queryClassroomVideos(ctx, database, `
SELECT v.vid_id, v.sub_code, v.topic_name, v.video_url, v.created_at
FROM classroom_videos v
WHERE v.sub_code IN (SELECT sub_code FROM grades WHERE std_id = $1 AND semestry = $2)
ORDER BY v.sub_code, v.vid_id`, stdID, semester)
}

func DeleteClassroomVideo(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM classroom_videos WHERE vid_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func queryClassroomVideos(ctx context.Context, database *sql.DB, query string, args ...any) ([]models.ClassroomVideo, error) {
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ClassroomVideo
	for rows.Next() {
		var v models.ClassroomVideo
		if err := rows.Scan(&v.ID, &v.SubjectCode, &v.TopicName, &v.VideoURL, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func AddTutoringVideo(ctx context.Context, database *sql.DB, v models.TutoringVideo) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO tutoring_videos (title, video_url, description)
VALUES ($1, $2, $3)
RETURNING id`, v.Title, v.VideoURL, v.Description).Scan(&id)
	return id, err
}

func ListTutoringVideos(ctx context.Context, database *sql.DB) ([]models.TutoringVideo, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, title, video_url, description, created_at
FROM tutoring_videos ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TutoringVideo
	for rows.Next() {
		var v models.TutoringVideo
		if err := rows.Scan(&v.ID, &v.Title, &v.VideoURL, &v.Description, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func DeleteTutoringVideo(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM tutoring_videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
