// Package stats хранит снимок состояния бота (таблица bot_stats).
// repository.go выполняет операции с таблицей.
package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/schema"
)

// Repository работает с таблицей bot_stats.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий статистики.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert создаёт строку статистики. id и last_update назначает БД.
func (r *Repository) Insert(ctx context.Context, in schema.InsertBotStats) (*schema.BotStats, error) {
	s, err := schema.ScanBotStats(r.db.QueryRow(ctx, schema.BotStatsTable.InsertSQL(), in.Values()...))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания статистики: %w", err)
	}
	return s, nil
}

// Latest возвращает последнюю строку статистики.
// Если строк нет — common.ErrNoStats.
func (r *Repository) Latest(ctx context.Context) (*schema.BotStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM bot_stats ORDER BY "last_update" DESC, "id" DESC LIMIT 1`,
		schema.BotStatsTable.SelectList())
	s, err := schema.ScanBotStats(r.db.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNoStats
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики: %w", err)
	}
	return s, nil
}

// Update перезаписывает строку id и обновляет last_update = NOW().
func (r *Repository) Update(ctx context.Context, id int64, in schema.InsertBotStats) (*schema.BotStats, error) {
	args := append([]any{id}, in.Values()...)
	s, err := schema.ScanBotStats(r.db.QueryRow(ctx, schema.BotStatsTable.UpdateSQL(`"last_update" = NOW()`), args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNoStats
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления статистики: %w", err)
	}
	return s, nil
}
