// Package income — service.go содержит настройку источников и начисления.
package income

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/config"
	"serotonyl.ru/income-bot/internal/schema"
)

// Store — хранилище настроек. Реализуется *Repository.
type Store interface {
	Insert(ctx context.Context, in schema.InsertIncomeConfig) (*schema.IncomeConfig, error)
	List(ctx context.Context) ([]*schema.IncomeConfig, error)
	GetBySource(ctx context.Context, sourceName string) (*schema.IncomeConfig, error)
	Update(ctx context.Context, id int64, in schema.InsertIncomeConfig) (*schema.IncomeConfig, error)
}

// Recorder сохраняет начисление. Реализуется *earnings.Service.
type Recorder interface {
	Record(ctx context.Context, in schema.InsertEarning) (*schema.Earning, error)
}

// Channel связывает канал дохода (earnings.source) со строкой income_config.
type Channel struct {
	Source      string // tip | command | auto
	ConfigName  string // tips | commands | auto
	Description string // Описание начисления по умолчанию
	MinRate     string // Нижняя граница при первом запуске
	MaxRate     string // Верхняя граница при первом запуске
}

// Service настраивает источники и начисляет доход.
type Service struct {
	store    Store
	recorder Recorder
	channels map[string]Channel
	randN    func(n int64) int64 // [0, n)
}

// NewService создаёт сервис дохода. Имена строк income_config берутся из конфига.
func NewService(store Store, recorder Recorder, cfg *config.Config) *Service {
	channels := []Channel{
		{Source: schema.SourceTip, ConfigName: cfg.IncomeTipSource, Description: "Чаевые", MinRate: "1.00", MaxRate: "5.00"},
		{Source: schema.SourceCommand, ConfigName: cfg.IncomeCommandSource, Description: "Оплата за команду", MinRate: "0.10", MaxRate: "1.00"},
		{Source: schema.SourceAuto, ConfigName: cfg.IncomeAutoSource, Description: "Автоматический доход", MinRate: "0.50", MaxRate: "2.00"},
	}
	s := &Service{
		store:    store,
		recorder: recorder,
		channels: make(map[string]Channel, len(channels)),
		randN:    rand.Int63n,
	}
	for _, ch := range channels {
		s.channels[ch.Source] = ch
	}
	return s
}

// EnsureDefaults создаёт строки income_config для каналов, которых ещё нет.
// Существующие настройки не трогает.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, source := range []string{schema.SourceTip, schema.SourceCommand, schema.SourceAuto} {
		ch := s.channels[source]
		_, err := s.store.GetBySource(ctx, ch.ConfigName)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrSourceNotFound) {
			return err
		}
		if _, err := s.Configure(ctx, schema.InsertIncomeConfig{
			SourceName: ch.ConfigName,
			MinRate:    schema.Money(schema.MustMoney(ch.MinRate)),
			MaxRate:    schema.Money(schema.MustMoney(ch.MaxRate)),
		}); err != nil {
			return fmt.Errorf("источник %s: %w", ch.ConfigName, err)
		}
		log.WithField("source", ch.ConfigName).Info("Создан источник дохода по умолчанию")
	}
	return nil
}

// Configure создаёт или перезаписывает источник с именем in.SourceName.
// Кроме insert-схемы проверяет minRate <= maxRate.
func (s *Service) Configure(ctx context.Context, in schema.InsertIncomeConfig) (*schema.IncomeConfig, error) {
	if err := schema.Validate(in); err != nil {
		return nil, err
	}
	if err := in.CheckRange(); err != nil {
		return nil, err
	}

	existing, err := s.store.GetBySource(ctx, in.SourceName)
	switch {
	case errors.Is(err, common.ErrSourceNotFound):
		return s.store.Insert(ctx, in)
	case err != nil:
		return nil, err
	}

	// Не заданный enabled при обновлении сохраняет текущее значение
	if in.Enabled == nil {
		in.Enabled = schema.Bool(existing.Enabled)
	}
	return s.store.Update(ctx, existing.ID, in)
}

// SetEnabled включает или выключает источник.
func (s *Service) SetEnabled(ctx context.Context, sourceName string, enabled bool) (*schema.IncomeConfig, error) {
	existing, err := s.store.GetBySource(ctx, sourceName)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, existing.ID, schema.InsertIncomeConfig{
		SourceName: existing.SourceName,
		Enabled:    schema.Bool(enabled),
		MinRate:    schema.Money(existing.MinRate),
		MaxRate:    schema.Money(existing.MaxRate),
	})
}

// List возвращает все источники.
func (s *Service) List(ctx context.Context) ([]*schema.IncomeConfig, error) {
	return s.store.List(ctx)
}

// Roll начисляет случайную сумму из [minRate, maxRate] по каналу source.
// Выключенный источник — common.ErrSourceDisabled.
func (s *Service) Roll(ctx context.Context, source string, userID *string) (*schema.Earning, error) {
	ch, cfg, err := s.enabledChannel(ctx, source)
	if err != nil {
		return nil, err
	}

	return s.recorder.Record(ctx, schema.InsertEarning{
		Amount:      schema.Money(s.draw(cfg.MinRate, cfg.MaxRate)),
		Source:      ch.Source,
		UserID:      userID,
		Description: ch.Description,
	})
}

// Tip записывает чаевые заданной суммы. Сумма должна попадать в диапазон источника tips.
func (s *Service) Tip(ctx context.Context, userID string, amount decimal.Decimal, description string) (*schema.Earning, error) {
	if !amount.IsPositive() {
		return nil, common.ErrInvalidAmount
	}

	ch, cfg, err := s.enabledChannel(ctx, schema.SourceTip)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(cfg.MinRate) || amount.GreaterThan(cfg.MaxRate) {
		return nil, &schema.ValidationError{
			Entity: schema.EarningsTable.Name,
			Fields: []schema.FieldError{{
				Field:   "amount",
				Rule:    schema.RuleRange,
				Message: fmt.Sprintf("чаевые от %s до %s", schema.FormatMoney(cfg.MinRate), schema.FormatMoney(cfg.MaxRate)),
			}},
		}
	}

	if description == "" {
		description = fmt.Sprintf("%s от %s", ch.Description, userID)
	}
	return s.recorder.Record(ctx, schema.InsertEarning{
		Amount:      schema.Money(amount),
		Source:      ch.Source,
		UserID:      schema.Text(userID),
		Description: description,
	})
}

func (s *Service) enabledChannel(ctx context.Context, source string) (Channel, *schema.IncomeConfig, error) {
	ch, ok := s.channels[source]
	if !ok {
		return Channel{}, nil, common.ErrSourceNotFound
	}
	cfg, err := s.store.GetBySource(ctx, ch.ConfigName)
	if err != nil {
		return Channel{}, nil, err
	}
	if !cfg.Enabled {
		return Channel{}, nil, common.ErrSourceDisabled
	}
	return ch, cfg, nil
}

// draw выбирает сумму с шагом в копейку, обе границы включены.
func (s *Service) draw(minRate, maxRate decimal.Decimal) decimal.Decimal {
	span := maxRate.Sub(minRate).Shift(schema.MoneyScale).IntPart()
	if span <= 0 {
		return minRate
	}
	return minRate.Add(decimal.New(s.randN(span+1), -schema.MoneyScale))
}
