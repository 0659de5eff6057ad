// Package earnings — service.go содержит бизнес-логику учёта доходов.
package earnings

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/schema"
)

// Store — хранилище доходов. Реализуется *Repository.
type Store interface {
	Insert(ctx context.Context, in schema.InsertEarning) (*schema.Earning, error)
	ListRecent(ctx context.Context, limit int) ([]*schema.Earning, error)
	TotalsBySource(ctx context.Context, since time.Time) ([]SourceTotal, error)
}

// IncomeLogger пишет событие income_event в журнал бота.
type IncomeLogger interface {
	LogIncome(ctx context.Context, source string, userID *string)
}

// Service записывает и агрегирует доходы.
type Service struct {
	store    Store
	activity IncomeLogger
}

// NewService создаёт сервис доходов. activity может быть nil.
func NewService(store Store, activity IncomeLogger) *Service {
	return &Service{store: store, activity: activity}
}

// Record валидирует insert-схему и сохраняет поступление.
// Возвращает запись с назначенными id и timestamp.
func (s *Service) Record(ctx context.Context, in schema.InsertEarning) (*schema.Earning, error) {
	if err := schema.Validate(in); err != nil {
		return nil, err
	}

	e, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"id":     e.ID,
		"amount": schema.FormatMoney(e.Amount),
		"source": e.Source,
	}).Info("Доход записан")

	if s.activity != nil {
		s.activity.LogIncome(ctx, e.Source, e.UserID)
	}
	return e, nil
}

// Recent возвращает последние поступления.
func (s *Service) Recent(ctx context.Context, limit int) ([]*schema.Earning, error) {
	return s.store.ListRecent(ctx, limit)
}

// Summary собирает сводку за период начиная с since.
func (s *Service) Summary(ctx context.Context, since time.Time) (*Summary, error) {
	totals, err := s.store.TotalsBySource(ctx, since)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Since: since, Total: decimal.Zero, BySource: totals}
	for _, t := range totals {
		sum.Count += t.Count
		sum.Total = sum.Total.Add(t.Total)
	}
	return sum, nil
}
