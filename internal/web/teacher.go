package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Spok95/school-exam-portal/internal/ctxutil"
	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/export"
	"github.com/Spok95/school-exam-portal/internal/models"
	"github.com/Spok95/school-exam-portal/internal/report"
)

func (s *Server) teacherRoutes(api *mux.Router) {
	t := api.PathPrefix("/teacher").Subrouter()
	t.HandleFunc("/students", s.auth(s.handleGroupStudents, models.Teacher, models.Admin)).Methods(http.MethodGet)
	t.HandleFunc("/students/{id}", s.auth(s.handleStudentDetail, models.Teacher, models.Admin)).Methods(http.MethodGet)
	t.HandleFunc("/matrix", s.auth(s.handleGroupMatrix, models.Teacher, models.Admin)).Methods(http.MethodGet)
	t.HandleFunc("/matrix.xlsx", s.auth(s.handleGroupMatrixXLSX, models.Teacher, models.Admin)).Methods(http.MethodGet)
}

// groupFor: учитель видит только свою группу, админ выбирает любую через ?group=.
func (s *Server) groupFor(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := s.session(r)
	if sess.Role == models.Admin {
		grp := r.URL.Query().Get("group")
		if grp == "" {
			s.respondError(w, http.StatusBadRequest, "group query parameter is required")
			return "", false
		}
		return grp, true
	}
	if sess.AssignedGroup == "" {
		s.respondError(w, http.StatusForbidden, "no group assigned")
		return "", false
	}
	return sess.AssignedGroup, true
}

func (s *Server) handleGroupStudents(w http.ResponseWriter, r *http.Request) {
	grp, ok := s.groupFor(w, r)
	if !ok {
		return
	}

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
	students, err := db.ListGroupStudents(ctx, s.db, grp, semester)
	if err != nil {
		s.respondDBErr(w, err, "students")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"group":    grp,
		"semester": semester,
		"students": students,
	})
}

func (s *Server) handleStudentDetail(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	st, err := db.GetStudent(ctx, s.db, mux.Vars(r)["id"])
	if err != nil {
		s.respondDBErr(w, err, "student")
		return
	}
	// чужая группа для учителя закрыта
	if sess.Role == models.Teacher && st.GroupCode != sess.AssignedGroup {
		s.respondError(w, http.StatusForbidden, "student is not in your group")
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
	s.respondJSON(w, http.StatusOK, map[string]any{
		"student":        st,
		"grades":         grades,
		"activities":     acts,
		"activity_hours": hours,
	})
}

func (s *Server) buildMatrix(w http.ResponseWriter, r *http.Request) (string, report.Matrix, bool) {
	grp, ok := s.groupFor(w, r)
	if !ok {
		return "", report.Matrix{}, false
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	rows, err := db.GroupResults(ctx, s.db, grp)
	if err != nil {
		s.respondDBErr(w, err, "results")
		return "", report.Matrix{}, false
	}
	return grp, report.BuildMatrix(rows), true
}

func (s *Server) handleGroupMatrix(w http.ResponseWriter, r *http.Request) {
	grp, m, ok := s.buildMatrix(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"group": grp, "matrix": m})
}

func (s *Server) handleGroupMatrixXLSX(w http.ResponseWriter, r *http.Request) {
	grp, m, ok := s.buildMatrix(w, r)
	if !ok {
		return
	}
	wb, err := export.MatrixWorkbook(grp, m)
	if err != nil {
		s.log.Errorw("matrix workbook", "err", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.sendWorkbook(w, wb, export.MatrixFilename(grp))
}

func (s *Server) sendWorkbook(w http.ResponseWriter, wb *export.Workbook, filename string) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := wb.WriteTo(w); err != nil {
		s.log.Warnw("send workbook", "err", err)
	}
}
