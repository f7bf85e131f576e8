package web

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Spok95/school-exam-portal/internal/backupclient"
	"github.com/Spok95/school-exam-portal/internal/config"
	"github.com/Spok95/school-exam-portal/internal/exam"
	"github.com/Spok95/school-exam-portal/internal/metrics"
)

type Server struct {
	db     *sql.DB
	store  *exam.Store
	cfg    *config.Config
	log    *zap.SugaredLogger
	backup *backupclient.Client
	srv    *http.Server
}

func New(database *sql.DB, store *exam.Store, cfg *config.Config, log *zap.SugaredLogger) *Server {
	s := &Server{
		db:     database,
		store:  store,
		cfg:    cfg,
		log:    log,
		backup: backupclient.New(cfg.BackupURL),
	}
	s.srv = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.auth(s.handleLogout)).Methods(http.MethodPost)

	s.studentRoutes(api)
	s.teacherRoutes(api)
	s.adminRoutes(api)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	_, _ = w.Write([]byte("ok"))
}

// Start поднимает сервер и аккуратно гасит его по отмене контекста.
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.log.Infow("http listen", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("http serve", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shCtx)
	}()
}
