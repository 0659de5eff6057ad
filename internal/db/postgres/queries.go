// Package postgres — queries.go содержит миграции схемы.
// DDL таблиц не пишется руками, а генерируется из деклараций пакета schema.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/schema"
)

// Migration — одна версия схемы.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations возвращает все миграции по порядку.
// Версии 1-4 создают таблицы из schema.Tables, 5 — индексы для выборок «последние N».
func Migrations() []Migration {
	out := make([]Migration, 0, len(schema.Tables)+1)
	for i, t := range schema.Tables {
		out = append(out, Migration{Version: i + 1, Name: t.Name, SQL: t.CreateSQL()})
	}
	out = append(out, Migration{
		Version: len(schema.Tables) + 1,
		Name:    "indexes",
		SQL: strings.Join([]string{
			`CREATE INDEX IF NOT EXISTS idx_earnings_timestamp ON earnings("timestamp" DESC);`,
			`CREATE INDEX IF NOT EXISTS idx_earnings_source ON earnings("source");`,
			`CREATE INDEX IF NOT EXISTS idx_bot_activity_timestamp ON bot_activity("timestamp" DESC);`,
			`CREATE INDEX IF NOT EXISTS idx_bot_activity_type ON bot_activity("type");`,
			`CREATE INDEX IF NOT EXISTS idx_income_config_source ON income_config("source_name");`,
		}, "\n"),
	})
	return out
}

// Migrate создаёт таблицу schema_migrations и применяет недостающие миграции.
// Каждая миграция выполняется в своей транзакции.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	for _, m := range Migrations() {
		applied, err := ExecMigrationSQL(ctx, pool, m.Version, m.SQL)
		if err != nil {
			return fmt.Errorf("миграция %d (%s): %w", m.Version, m.Name, err)
		}
		if applied {
			log.WithField("version", m.Version).Infof("Миграция %s применена", m.Name)
		}
	}
	return nil
}

// ExecMigrationSQL выполняет один SQL-запрос миграции в транзакции.
// Если запрос упадёт — транзакция откатится автоматически.
// Возвращает false, если версия уже была применена.
func ExecMigrationSQL(ctx context.Context, pool *pgxpool.Pool, version int, sql string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return false, fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}

	return true, tx.Commit(ctx)
}
