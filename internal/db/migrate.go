package db

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/Spok95/school-exam-portal/migrations"
)

// Migrate накатывает версионированные goose-миграции из embed.
// Никаких ALTER «на первом коннекте» — схема меняется только здесь.
func Migrate(database *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(database, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
