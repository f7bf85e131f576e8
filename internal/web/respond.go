package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/metrics"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnw("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	if status >= 500 {
		metrics.HandlerErrors.Inc()
	}
	s.respondJSON(w, status, errorResponse{Error: msg})
}

// respondDBErr переводит ошибку хранилища в HTTP-ответ: ErrNotFound — 404,
// остальное — 500 без деталей наружу.
func (s *Server) respondDBErr(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, db.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, what+" not found")
		return
	}
	s.log.Errorw(what, "err", err)
	s.respondError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
