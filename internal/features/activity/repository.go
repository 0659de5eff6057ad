// Package activity ведёт журнал событий бота (таблица bot_activity).
// repository.go выполняет операции с таблицей. Записи только добавляются.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/income-bot/internal/schema"
)

// Repository работает с таблицей bot_activity.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий журнала.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert добавляет событие. id и timestamp назначает БД.
func (r *Repository) Insert(ctx context.Context, in schema.InsertBotActivity) (*schema.BotActivity, error) {
	a, err := schema.ScanBotActivity(r.db.QueryRow(ctx, schema.BotActivityTable.InsertSQL(), in.Values()...))
	if err != nil {
		return nil, fmt.Errorf("ошибка записи события: %w", err)
	}
	return a, nil
}

// ListRecent возвращает последние limit событий, новые сверху.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*schema.BotActivity, error) {
	query := fmt.Sprintf(`SELECT %s FROM bot_activity ORDER BY "timestamp" DESC, "id" DESC LIMIT $1`,
		schema.BotActivityTable.SelectList())
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения событий: %w", err)
	}
	defer rows.Close()

	var out []*schema.BotActivity
	for rows.Next() {
		a, err := schema.ScanBotActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования события: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByType считает события каждого типа начиная с since.
func (r *Repository) CountByType(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT "type", COUNT(*) FROM bot_activity
		WHERE "timestamp" >= $1
		GROUP BY "type"
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта событий: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		out[typ] = n
	}
	return out, rows.Err()
}

// CountDistinct возвращает число уникальных пользователей и чатов в журнале.
// Используется статистикой бота для total_users / total_guilds.
func (r *Repository) CountDistinct(ctx context.Context) (users, guilds int32, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT "user_id")::int, COUNT(DISTINCT "guild_id")::int FROM bot_activity
	`).Scan(&users, &guilds)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка подсчёта пользователей: %w", err)
	}
	return users, guilds, nil
}
