package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Spok95/school-exam-portal/internal/ctxutil"
	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/exam"
	"github.com/Spok95/school-exam-portal/internal/metrics"
	"github.com/Spok95/school-exam-portal/internal/models"
)

func (s *Server) examRoutes(api *mux.Router) {
	ex := api.PathPrefix("/exams").Subrouter()
	ex.HandleFunc("/eligible", s.auth(s.handleEligibleExams, models.RoleStudent)).Methods(http.MethodGet)
	ex.HandleFunc("/{id:[0-9]+}/start", s.auth(s.handleStartExam, models.RoleStudent)).Methods(http.MethodPost)
	ex.HandleFunc("/session/submit", s.auth(s.handleSubmitExam, models.RoleStudent)).Methods(http.MethodPost)
	ex.HandleFunc("/session/cancel", s.auth(s.handleCancelExam, models.RoleStudent)).Methods(http.MethodPost)
}

type eligibleExamDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	SubjectCode string          `json:"subject_code"`
	Semester    string          `json:"semester"`
	Questions   int             `json:"questions"`
	Retake      bool            `json:"retake"`
	LastAttempt *models.Attempt `json:"last_attempt,omitempty"`
}

// handleEligibleExams: активные экзамены, отфильтрованные допуском студента,
// с числом вопросов и прошлой попыткой. Список пересчитывается на каждый запрос.
func (s *Server) handleEligibleExams(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	grades, err := db.GetGradesByStudent(ctx, s.db, sess.Username)
	if err != nil {
		s.respondDBErr(w, err, "grades")
		return
	}
	active, err := db.ListActiveExams(ctx, s.db)
	if err != nil {
		s.respondDBErr(w, err, "exams")
		return
	}

	out := make([]eligibleExamDTO, 0)
	for _, e := range exam.Eligible(grades, active) {
		n, err := db.CountQuestions(ctx, s.db, e.ID)
		if err != nil {
			s.respondDBErr(w, err, "questions")
			return
		}
		dto := eligibleExamDTO{
			ID:          e.ID,
			Name:        e.Name,
			SubjectCode: e.SubjectCode,
			Semester:    e.Semester,
			Questions:   n,
		}
		last, err := db.GetAttempt(ctx, s.db, e.ID, sess.Username)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			s.respondDBErr(w, err, "attempt")
			return
		}
		if last != nil {
			dto.Retake = true
			dto.LastAttempt = last
		}
		out = append(out, dto)
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"exams": out})
}

type questionDTO struct {
	ID      int64    `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// handleStartExam открывает попытку. Правильные ответы наружу не уходят —
// студент видит только тексты вариантов.
func (s *Server) handleStartExam(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "bad exam id")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	e, err := db.GetExam(ctx, s.db, id)
	if err != nil {
		s.respondDBErr(w, err, "exam")
		return
	}
	if !e.IsActive {
		s.respondError(w, http.StatusForbidden, "exam is closed")
		return
	}

	grades, err := db.GetGradesByStudent(ctx, s.db, sess.Username)
	if err != nil {
		s.respondDBErr(w, err, "grades")
		return
	}
	if !examAllowed(*e, grades) {
		s.respondError(w, http.StatusForbidden, "not eligible for this exam")
		return
	}

	questions, err := db.ListQuestions(ctx, s.db, id)
	if err != nil {
		s.respondDBErr(w, err, "questions")
		return
	}

	if _, err := s.store.Start(sess.Token, sess.Username, *e, len(questions)); err != nil {
		if errors.Is(err, exam.ErrNoQuestions) {
			s.respondError(w, http.StatusUnprocessableEntity, "exam has no questions")
			return
		}
		s.log.Errorw("start exam", "err", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	dtos := make([]questionDTO, 0, len(questions))
	for _, q := range questions {
		dtos = append(dtos, questionDTO{ID: q.ID, Text: q.Text, Choices: q.Choices()})
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"exam":      map[string]any{"id": e.ID, "name": e.Name, "subject_code": e.SubjectCode},
		"questions": dtos,
	})
}

func examAllowed(e models.Exam, grades []models.Grade) bool {
	for _, el := range exam.Eligible(grades, []models.Exam{e}) {
		if el.ID == e.ID {
			return true
		}
	}
	return false
}

type submitRequest struct {
	// id вопроса → текст выбранного варианта
	Answers map[string]string `json:"answers"`
}

// handleSubmitExam принимает только полный лист ответов; частичная сдача
// возвращает 422 и оставляет попытку открытой. Запись в БД — атомарный upsert,
// попытка закрывается лишь после успешной записи.
func (s *Server) handleSubmitExam(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	answers := make(map[int64]string, len(req.Answers))
	for k, v := range req.Answers {
		qid, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "bad question id "+k)
			return
		}
		answers[qid] = v
	}

	active, ok := s.store.Get(sess.Token)
	if !ok {
		s.respondError(w, http.StatusConflict, "no exam in progress")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	questions, err := db.ListQuestions(ctx, s.db, active.ExamID)
	if err != nil {
		s.respondDBErr(w, err, "questions")
		return
	}

	score, total, err := s.store.Submit(sess.Token, questions, answers)
	if err != nil {
		var inc *exam.ErrIncomplete
		switch {
		case errors.As(err, &inc):
			s.respondError(w, http.StatusUnprocessableEntity, inc.Error())
		case errors.Is(err, exam.ErrNoSession):
			s.respondError(w, http.StatusConflict, "no exam in progress")
		default:
			s.log.Errorw("submit exam", "err", err)
			s.respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	attempt := models.Attempt{
		ExamID:      active.ExamID,
		StudentID:   sess.Username,
		Score:       score,
		TotalScore:  total,
		SubmittedAt: time.Now(),
	}
	if err := db.SaveAttempt(ctx, s.db, attempt); err != nil {
		// попытка остаётся IN_PROGRESS, студент может сдать ещё раз
		s.respondDBErr(w, err, "save attempt")
		return
	}
	s.store.Finish(sess.Token)
	metrics.ExamSubmissions.Inc()

	s.respondJSON(w, http.StatusOK, map[string]any{
		"exam_id": active.ExamID,
		"score":   score,
		"total":   total,
	})
}

func (s *Server) handleCancelExam(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	if !s.store.Cancel(sess.Token) {
		s.respondError(w, http.StatusConflict, "no exam in progress")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
