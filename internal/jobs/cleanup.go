package jobs

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-exam-portal/internal/ctxutil"
	"github.com/Spok95/school-exam-portal/internal/db"
	"github.com/Spok95/school-exam-portal/internal/exam"
)

// Брошенная дольше этого попытка считается мёртвой.
const staleAttemptAge = 4 * time.Hour

// SessionCleanup возвращает джобу уборки: просроченные логин-сессии из БД
// и зависшие попытки из памяти.
func SessionCleanup(database *sql.DB, store *exam.Store, log *zap.SugaredLogger) Job {
	return func(ctx context.Context) error {
		dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
		defer cancel()

		deleted, err := db.DeleteExpiredSessions(dbCtx, database)
		if err != nil {
			log.Warnw("cleanup: delete expired sessions", "err", err)
			return err
		}
		swept := store.Sweep(staleAttemptAge)
		if deleted > 0 || swept > 0 {
			log.Infow("cleanup", "sessions_deleted", deleted, "attempts_swept", swept)
		}
		return nil
	}
}
