package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Spok95/school-exam-portal/internal/ctxutil"
	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/metrics"
	"github.com/Spok95/school-exam-portal/internal/models"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// instrument считает запросы по шаблону маршрута, не по сырому URL,
// чтобы не раздувать кардинальность метрики.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctxutil.WithOp(r.Context(), route)))
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
	})
}

// auth проверяет bearer-токен по таблице сессий и роль. Пустой список ролей
// означает «любой залогиненный».
func (s *Server) auth(next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		ctx, cancel := ctxutil.WithDBTimeout(r.Context())
		defer cancel()
		sess, err := db.GetSession(ctx, s.db, token)
		if errors.Is(err, db.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		if err != nil {
			s.respondDBErr(w, err, "session")
			return
		}

		if len(roles) > 0 && !roleAllowed(sess.Role, roles) {
			s.respondError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r.WithContext(ctxutil.WithSession(r.Context(), sess)))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func roleAllowed(have models.Role, want []models.Role) bool {
	for _, r := range want {
		if have == r {
			return true
		}
	}
	return false
}

// session достаёт сессию, положенную auth. Отсутствие — ошибка маршрутизации.
func (s *Server) session(r *http.Request) *models.Session {
	sess, ok := ctxutil.SessionFrom(r.Context())
	if !ok {
		panic("handler reached without auth middleware")
	}
	return sess
}
