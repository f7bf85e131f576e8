package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Spok95/school-exam-portal/internal/config"
	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/exam"
	"github.com/Spok95/school-exam-portal/internal/jobs"
	"github.com/Spok95/school-exam-portal/internal/logging"
	"github.com/Spok95/school-exam-portal/internal/observability"
	"github.com/Spok95/school-exam-portal/internal/web"
)

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Конфигурация: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Логгер: %v", err)
	}
	defer lg.Closer()
	slog := lg.Sugar

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "school-exam-portal")
	if err != nil {
		slog.Warnw("sentry init", "err", err)
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Fatalw("db open", "err", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Fatalw("db migrate", "err", err)
	}
	if err := db.SeedAdmin(ctx, database, cfg.AdminUser, cfg.AdminPassword); err != nil {
		slog.Fatalw("seed admin", "err", err)
	}

	store := exam.NewStore()

	srv := web.New(database, store, cfg, slog)
	srv.Start(ctx)

	runner := jobs.New(ctx)
	runner.Every(10*time.Minute, "session_cleanup", jobs.SessionCleanup(database, store, slog))

	slog.Infow("portal started", "addr", cfg.HTTPAddr, "env", cfg.Env)
	<-ctx.Done()
	slog.Infow("shutting down")
	// даём серверу время на graceful shutdown
	time.Sleep(200 * time.Millisecond)
}
