// Package earnings — repository.go выполняет операции с таблицей earnings.
// Суммы читаются как текст и разбираются в decimal, чтобы не терять копейки.
package earnings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"serotonyl.ru/income-bot/internal/schema"
)

// Repository работает с таблицей earnings.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий доходов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert сохраняет поступление. id и timestamp назначает БД.
func (r *Repository) Insert(ctx context.Context, in schema.InsertEarning) (*schema.Earning, error) {
	e, err := schema.ScanEarning(r.db.QueryRow(ctx, schema.EarningsTable.InsertSQL(), in.Values()...))
	if err != nil {
		return nil, fmt.Errorf("ошибка записи дохода: %w", err)
	}
	return e, nil
}

// ListRecent возвращает последние limit поступлений, новые сверху.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*schema.Earning, error) {
	query := fmt.Sprintf(`SELECT %s FROM earnings ORDER BY "timestamp" DESC, "id" DESC LIMIT $1`,
		schema.EarningsTable.SelectList())
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения доходов: %w", err)
	}
	defer rows.Close()

	var out []*schema.Earning
	for rows.Next() {
		e, err := schema.ScanEarning(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования дохода: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TotalsBySource суммирует поступления по источникам начиная с since.
func (r *Repository) TotalsBySource(ctx context.Context, since time.Time) ([]SourceTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT "source", COUNT(*), COALESCE(SUM("amount"), 0)::text
		FROM earnings
		WHERE "timestamp" >= $1
		GROUP BY "source"
		ORDER BY "source"
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сводки: %w", err)
	}
	defer rows.Close()

	var out []SourceTotal
	for rows.Next() {
		var st SourceTotal
		var total string
		if err := rows.Scan(&st.Source, &st.Count, &total); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сводки: %w", err)
		}
		if st.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
