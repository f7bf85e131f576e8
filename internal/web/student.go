package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Spok95/school-exam-portal/internal/ctxutil"
	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/models"
)

func (s *Server) studentRoutes(api *mux.Router) {
	st := api.PathPrefix("/student").Subrouter()
	st.HandleFunc("/dashboard", s.auth(s.handleStudentDashboard, models.RoleStudent)).Methods(http.MethodGet)
	st.HandleFunc("/grades", s.auth(s.handleStudentGrades, models.RoleStudent)).Methods(http.MethodGet)
	st.HandleFunc("/schedule", s.auth(s.handleStudentSchedule, models.RoleStudent)).Methods(http.MethodGet)
	st.HandleFunc("/activities", s.auth(s.handleStudentActivities, models.RoleStudent)).Methods(http.MethodGet)
	st.HandleFunc("/videos/classroom", s.auth(s.handleStudentClassroomVideos, models.RoleStudent)).Methods(http.MethodGet)
	st.HandleFunc("/videos/tutoring", s.auth(s.handleStudentTutoringVideos, models.RoleStudent)).Methods(http.MethodGet)

	s.examRoutes(api)
}

type dashboardResponse struct {
	Student       *models.Student   `json:"student"`
	Semester      string            `json:"semester"`
	Grades        []models.Grade    `json:"grades"`
	ActivityHours float64           `json:"activity_hours"`
	Activities    []models.Activity `json:"activities"`
}

func (s *Server) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	st, err := db.GetStudent(ctx, s.db, sess.Username)
	if err != nil {
		s.respondDBErr(w, err, "student")
		return
	}
	semester, err := db.CurrentSemester(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "semester")
		return
	}
	grades, err := db.GetGradesByStudent(ctx, s.db, st.ID)
	if err != nil {
		s.respondDBErr(w, err, "grades")
		return
	}
	acts, hours, err := db.ListActivities(ctx, s.db, st.ID)
	if err != nil {
		s.respondDBErr(w, err, "activities")
		return
	}

	s.respondJSON(w, http.StatusOK, dashboardResponse{
		Student:       st,
		Semester:      semester,
		Grades:        grades,
		ActivityHours: hours,
		Activities:    acts,
	})
}

func (s *Server) handleStudentGrades(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	grades, err := db.GetGradesByStudent(ctx, s.db, sess.Username)
	if err != nil {
		s.respondDBErr(w, err, "grades")
		return
	}
	// опциональный фильтр по семестру
	if sem := r.URL.Query().Get("semester"); sem != "" {
		filtered := grades[:0]
		for _, g := range grades {
			if g.Semester == sem {
				filtered = append(filtered, g)
			}
		}
		grades = filtered
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"grades": grades})
}

func (s *Server) handleStudentSchedule(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	semester := r.URL.Query().Get("semester")
	if semester == "" {
		var err error
		if semester, err = db.CurrentSemester(ctx, s.db); err != nil {
			s.respondDBErr(w, err, "semester")
			return
		}
	}
	entries, err := db.StudentSchedule(ctx, s.db, sess.Username, semester)
	if err != nil {
		s.respondDBErr(w, err, "schedule")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"semester": semester, "schedule": entries})
}

func (s *Server) handleStudentActivities(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	acts, hours, err := db.ListActivities(ctx, s.db, sess.Username)
	if err != nil {
		s.respondDBErr(w, err, "activities")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"activities": acts, "total_hours": hours})
}

func (s *Server) handleStudentClassroomVideos(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	semester, err := db.CurrentSemester(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "semester")
		return
	}
	videos, err := db.ClassroomVideosForStudent(ctx, s.db, sess.Username, semester)
	if err != nil {
		s.respondDBErr(w, err, "videos")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (s *Server) handleStudentTutoringVideos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	videos, err := db.ListTutoringVideos(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "videos")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"videos": videos})
}
