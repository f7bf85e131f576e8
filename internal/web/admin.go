package web

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Spok95/school-exam-portal/internal/ctxutil"
	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/export"
	"github.com/Spok95/school-exam-portal/internal/importer"
	"github.com/Spok95/school-exam-portal/internal/metrics"
	"github.com/Spok95/school-exam-portal/internal/models"
	"github.com/Spok95/school-exam-portal/internal/report"
)

// Архив выгрузки целиком читается в память; больше этого не бывает.
const maxImportSize = 256 << 20

func (s *Server) adminRoutes(api *mux.Router) {
	adm := api.PathPrefix("/admin").Subrouter()
	admin := func(h http.HandlerFunc) http.HandlerFunc { return s.auth(h, models.Admin) }

	adm.HandleFunc("/overview", admin(s.handleOverview)).Methods(http.MethodGet)
	adm.HandleFunc("/students", admin(s.handleSearchStudents)).Methods(http.MethodGet)
	adm.HandleFunc("/subjects", admin(s.handleListSubjects)).Methods(http.MethodGet)
	adm.HandleFunc("/groups", admin(s.handleListGroups)).Methods(http.MethodGet)
	adm.HandleFunc("/import", admin(s.handleBulkImport)).Methods(http.MethodPost)

	adm.HandleFunc("/exams", admin(s.handleListExams)).Methods(http.MethodGet)
	adm.HandleFunc("/exams", admin(s.handleCreateExam)).Methods(http.MethodPost)
	adm.HandleFunc("/exams/active", admin(s.handleSetAllExamsActive)).Methods(http.MethodPost)
	adm.HandleFunc("/exams/{id:[0-9]+}", admin(s.handleDeleteExam)).Methods(http.MethodDelete)
	adm.HandleFunc("/exams/{id:[0-9]+}/active", admin(s.handleSetExamActive)).Methods(http.MethodPost)
	adm.HandleFunc("/exams/{id:[0-9]+}/questions", admin(s.handleListQuestions)).Methods(http.MethodGet)
	adm.HandleFunc("/exams/{id:[0-9]+}/questions", admin(s.handleImportQuestions)).Methods(http.MethodPost)
	adm.HandleFunc("/questions/{id:[0-9]+}", admin(s.handleUpdateQuestion)).Methods(http.MethodPut)
	adm.HandleFunc("/questions/{id:[0-9]+}", admin(s.handleDeleteQuestion)).Methods(http.MethodDelete)

	adm.HandleFunc("/reports/attendance", admin(s.handleAttendance)).Methods(http.MethodGet)
	adm.HandleFunc("/reports/attendance.xlsx", admin(s.handleAttendanceXLSX)).Methods(http.MethodGet)
	adm.HandleFunc("/reports/results", admin(s.handleTermResults)).Methods(http.MethodGet)

	adm.HandleFunc("/password-reset", admin(s.handleResetPassword)).Methods(http.MethodPost)
	adm.HandleFunc("/backup", admin(s.handleBackup)).Methods(http.MethodPost)
	adm.HandleFunc("/restore", admin(s.handleRestore)).Methods(http.MethodPost)

	adm.HandleFunc("/videos/classroom", admin(s.handleListClassroomVideos)).Methods(http.MethodGet)
	adm.HandleFunc("/videos/classroom", admin(s.handleAddClassroomVideo)).Methods(http.MethodPost)
	adm.HandleFunc("/videos/classroom/{id:[0-9]+}", admin(s.handleDeleteClassroomVideo)).Methods(http.MethodDelete)
	adm.HandleFunc("/videos/tutoring", admin(s.handleListTutoringVideos)).Methods(http.MethodGet)
	adm.HandleFunc("/videos/tutoring", admin(s.handleAddTutoringVideo)).Methods(http.MethodPost)
	adm.HandleFunc("/videos/tutoring/{id:[0-9]+}", admin(s.handleDeleteTutoringVideo)).Methods(http.MethodDelete)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	var students, exams, submissions int
	row := s.db.QueryRowContext(ctx, `
SELECT (SELECT COUNT(*) FROM students),
       (SELECT COUNT(*) FROM exams),
       (SELECT COUNT(*) FROM exam_results)`)
	if err := row.Scan(&students, &exams, &submissions); err != nil {
		s.respondDBErr(w, err, "overview")
		return
	}
	semesters, err := db.ListSemesters(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "semesters")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"students":    students,
		"exams":       exams,
		"submissions": submissions,
		"semesters":   semesters,
	})
}

func (s *Server) handleSearchStudents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	students, err := db.SearchStudents(ctx, s.db, q, 50)
	if err != nil {
		s.respondDBErr(w, err, "students")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"students": students})
}

// handleListSubjects — справочник предметов для формы создания экзамена.
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	subjects, err := db.ListSubjects(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "subjects")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
}

// handleListGroups — все группы, либо поиск по ?q= (код или имя учителя).
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	var (
		groups []models.Group
		err    error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		groups, err = db.SearchGroups(ctx, s.db, q)
	} else {
		groups, err = db.ListGroups(ctx, s.db, 500)
	}
	if err != nil {
		s.respondDBErr(w, err, "groups")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

// handleBulkImport: zip с DBF-выгрузкой. Парсинг целиком до транзакции:
// битый архив не трогает базу вообще.
func (s *Server) handleBulkImport(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r, "archive")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := importer.ParseArchive(data)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "import: "+err.Error())
		return
	}

	// импорту может понадобиться больше стандартного таймаута БД
	if err := db.ReplaceLegacyTables(r.Context(), s.db, snap); err != nil {
		s.respondDBErr(w, err, "bulk import")
		return
	}

	counts := map[string]int{
		"students":   len(snap.Students),
		"grades":     len(snap.Grades),
		"schedule":   len(snap.Schedule),
		"subjects":   len(snap.Subjects),
		"activities": len(snap.Activities),
		"groups":     len(snap.Groups),
		"teachers":   len(snap.TeacherUsers),
	}
	for table, n := range counts {
		metrics.ImportRows.WithLabelValues(table).Add(float64(n))
	}
	s.log.Infow("bulk import", "counts", counts)
	s.respondJSON(w, http.StatusOK, map[string]any{"imported": counts})
}

// readUpload достаёт файл из multipart-формы по имени поля, либо, если
// запрос не multipart, читает тело целиком.
func readUpload(r *http.Request, field string) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err == nil {
		f, _, err := r.FormFile(field)
		if err != nil {
			return nil, errors.New("missing file field " + field)
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("read request body: " + err.Error())
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload")
	}
	return data, nil
}

type createExamRequest struct {
	Name        string `json:"name"`
	SubjectCode string `json:"subject_code"`
	Semester    string `json:"semester"`
	IsActive    bool   `json:"is_active"`
}

func (s *Server) handleCreateExam(w http.ResponseWriter, r *http.Request) {
	var req createExamRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" || req.SubjectCode == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "name and subject_code are required")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	id, err := db.CreateExam(ctx, s.db, models.Exam{
		Name:        req.Name,
		SubjectCode: req.SubjectCode,
		Semester:    req.Semester,
		IsActive:    req.IsActive,
	})
	if err != nil {
		s.respondDBErr(w, err, "exam")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListExams(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	exams, err := db.ListExams(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "exams")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"exams": exams})
}

func (s *Server) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.DeleteExam(ctx, s.db, id); err != nil {
		s.respondDBErr(w, err, "exam")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type activeRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleSetExamActive(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req activeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.SetExamActive(ctx, s.db, id, req.Active); err != nil {
		s.respondDBErr(w, err, "exam")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"id": id, "active": req.Active})
}

// handleSetAllExamsActive — «рубильник» на все экзамены сразу.
func (s *Server) handleSetAllExamsActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.SetAllExamsActive(ctx, s.db, req.Active); err != nil {
		s.respondDBErr(w, err, "exams")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"active": req.Active})
}

func (s *Server) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if _, err := db.GetExam(ctx, s.db, id); err != nil {
		s.respondDBErr(w, err, "exam")
		return
	}

	data, err := readUpload(r, "file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	questions, err := importer.ParseQuestionsXLSX(bytes.NewReader(data))
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "questions: "+err.Error())
		return
	}

	n, err := db.InsertQuestions(ctx, s.db, id, questions)
	if err != nil {
		s.respondDBErr(w, err, "questions")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"imported": n})
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	questions, err := db.ListQuestions(ctx, s.db, id)
	if err != nil {
		s.respondDBErr(w, err, "questions")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

type questionRequest struct {
	Text    string `json:"text"`
	ChoiceA string `json:"choice_a"`
	ChoiceB string `json:"choice_b"`
	ChoiceC string `json:"choice_c"`
	ChoiceD string `json:"choice_d"`
	Correct string `json:"correct"`
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	switch req.Correct {
	case "A", "B", "C", "D":
	default:
		s.respondError(w, http.StatusUnprocessableEntity, "correct must be one of A..D")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	err := db.UpdateQuestion(ctx, s.db, models.Question{
		ID:      id,
		Text:    req.Text,
		ChoiceA: req.ChoiceA,
		ChoiceB: req.ChoiceB,
		ChoiceC: req.ChoiceC,
		ChoiceD: req.ChoiceD,
		Correct: req.Correct,
	})
	if err != nil {
		s.respondDBErr(w, err, "question")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.DeleteQuestion(ctx, s.db, id); err != nil {
		s.respondDBErr(w, err, "question")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) buildAttendance(w http.ResponseWriter, r *http.Request) (report.Attendance, bool) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	semester := r.URL.Query().Get("semester")
	if semester == "" {
		var err error
		if semester, err = db.CurrentSemester(ctx, s.db); err != nil {
			s.respondDBErr(w, err, "semester")
			return report.Attendance{}, false
		}
	}

	regs, err := db.RegisteredForTerm(ctx, s.db, semester)
	if err != nil {
		s.respondDBErr(w, err, "registrations")
		return report.Attendance{}, false
	}
	attempted, err := db.AttemptedStudentIDs(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "attempts")
		return report.Attendance{}, false
	}
	teachers, err := db.TeacherNamesByGroup(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "teachers")
		return report.Attendance{}, false
	}
	return report.BuildAttendance(semester, regs, attempted, teachers), true
}

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.buildAttendance(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleAttendanceXLSX(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.buildAttendance(w, r)
	if !ok {
		return
	}
	wb, err := export.AttendanceWorkbook(rep)
	if err != nil {
		s.log.Errorw("attendance workbook", "err", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.sendWorkbook(w, wb, export.AttendanceFilename(rep.Term))
}

func (s *Server) handleTermResults(w http.ResponseWriter, r *http.Request) {
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
	results, err := db.TermResults(ctx, s.db, semester)
	if err != nil {
		s.respondDBErr(w, err, "results")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"semester": semester, "results": results})
}

type resetPasswordRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.SetPassword(ctx, s.db, req.Username, req.Password); err != nil {
		s.respondDBErr(w, err, "user")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	out, err := s.backup.TriggerBackup(r.Context())
	if err != nil {
		s.log.Errorw("backup", "err", err)
		s.respondError(w, http.StatusBadGateway, "backup failed: "+err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"output": out})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	out, err := s.backup.RestoreLatest(r.Context())
	if err != nil {
		s.log.Errorw("restore", "err", err)
		s.respondError(w, http.StatusBadGateway, "restore failed: "+err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"output": out})
}

type classroomVideoRequest struct {
	SubjectCode string `json:"subject_code"`
	TopicName   string `json:"topic_name"`
	VideoURL    string `json:"video_url"`
}

func (s *Server) handleAddClassroomVideo(w http.ResponseWriter, r *http.Request) {
	var req classroomVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.SubjectCode == "" || req.VideoURL == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "subject_code and video_url are required")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	id, err := db.AddClassroomVideo(ctx, s.db, models.ClassroomVideo{
		SubjectCode: req.SubjectCode,
		TopicName:   req.TopicName,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		s.respondDBErr(w, err, "video")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListClassroomVideos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	videos, err := db.ListClassroomVideos(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "videos")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (s *Server) handleDeleteClassroomVideo(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.DeleteClassroomVideo(ctx, s.db, id); err != nil {
		s.respondDBErr(w, err, "video")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type tutoringVideoRequest struct {
	Title       string `json:"title"`
	VideoURL    string `json:"video_url"`
	Description string `json:"description"`
}

func (s *Server) handleAddTutoringVideo(w http.ResponseWriter, r *http.Request) {
	var req tutoringVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Title == "" || req.VideoURL == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "title and video_url are required")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	id, err := db.AddTutoringVideo(ctx, s.db, models.TutoringVideo{
		Title:       req.Title,
		VideoURL:    req.VideoURL,
		Description: req.Description,
	})
	if err != nil {
		s.respondDBErr(w, err, "video")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListTutoringVideos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	videos, err := db.ListTutoringVideos(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "videos")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (s *Server) handleDeleteTutoringVideo(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.DeleteTutoringVideo(ctx, s.db, id); err != nil {
		s.respondDBErr(w, err, "video")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
