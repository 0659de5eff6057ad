// Package income управляет источниками дохода (таблица income_config)
// и начислениями по ним.
// repository.go выполняет операции с таблицей income_config.
package income

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/schema"
)

// Repository работает с таблицей income_config.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий настроек дохода.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert создаёт настройку источника.
func (r *Repository) Insert(ctx context.Context, in schema.InsertIncomeConfig) (*schema.IncomeConfig, error) {
	c, err := schema.ScanIncomeConfig(r.db.QueryRow(ctx, schema.IncomeConfigTable.InsertSQL(), in.Values()...))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания источника: %w", err)
	}
	return c, nil
}

// List возвращает все источники по имени.
func (r *Repository) List(ctx context.Context) ([]*schema.IncomeConfig, error) {
	query := fmt.Sprintf(`SELECT %s FROM income_config ORDER BY "source_name", "id"`,
		schema.IncomeConfigTable.SelectList())
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения источников: %w", err)
	}
	defer rows.Close()

	var out []*schema.IncomeConfig
	for rows.Next() {
		c, err := schema.ScanIncomeConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования источника: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetBySource возвращает источник по имени.
// Уникальность имени схема не гарантирует — берётся самая ранняя строка.
func (r *Repository) GetBySource(ctx context.Context, sourceName string) (*schema.IncomeConfig, error) {
	query := fmt.Sprintf(`SELECT %s FROM income_config WHERE "source_name" = $1 ORDER BY "id" LIMIT 1`,
		schema.IncomeConfigTable.SelectList())
	c, err := schema.ScanIncomeConfig(r.db.QueryRow(ctx, query, sourceName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения источника: %w", err)
	}
	return c, nil
}

// Update перезаписывает источник id.
func (r *Repository) Update(ctx context.Context, id int64, in schema.InsertIncomeConfig) (*schema.IncomeConfig, error) {
	args := append([]any{id}, in.Values()...)
	c, err := schema.ScanIncomeConfig(r.db.QueryRow(ctx, schema.IncomeConfigTable.UpdateSQL(), args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления источника: %w", err)
	}
	return c, nil
}
