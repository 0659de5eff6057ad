// Package activity — service.go содержит логику журнала событий.
package activity

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/schema"
)

// Store — хранилище журнала. Реализуется *Repository.
type Store interface {
	Insert(ctx context.Context, in schema.InsertBotActivity) (*schema.BotActivity, error)
	ListRecent(ctx context.Context, limit int) ([]*schema.BotActivity, error)
	CountByType(ctx context.Context, since time.Time) (map[string]int64, error)
}

// Service пишет события бота.
type Service struct {
	store Store
}

// NewService создаёт сервис журнала.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Log валидирует и сохраняет событие.
func (s *Service) Log(ctx context.Context, in schema.InsertBotActivity) (*schema.BotActivity, error) {
	if err := schema.Validate(in); err != nil {
		return nil, err
	}
	return s.store.Insert(ctx, in)
}

// LogCommand записывает вызов команды. guild — чат, в котором её вызвали.
func (s *Service) LogCommand(ctx context.Context, command string, userID, chatID int64) error {
	_, err := s.Log(ctx, schema.InsertBotActivity{
		Type:    schema.ActivityCommand,
		Command: schema.Text(command),
		UserID:  schema.Text(common.IDString(userID)),
		GuildID: schema.Text(common.IDString(chatID)),
	})
	return err
}

// LogJoin записывает вступление пользователя в чат.
func (s *Service) LogJoin(ctx context.Context, userID, chatID int64) error {
	_, err := s.Log(ctx, schema.InsertBotActivity{
		Type:    schema.ActivityUserJoin,
		UserID:  schema.Text(common.IDString(userID)),
		GuildID: schema.Text(common.IDString(chatID)),
	})
	return err
}

// LogIncome записывает событие дохода. Ошибка только логируется:
// начисление уже сохранено, и журнал не должен его откатывать.
// command остаётся пустым: он заполняется только для вызова команды,
// а источник хранится в earnings.source.
func (s *Service) LogIncome(ctx context.Context, source string, userID *string) {
	_, err := s.Log(ctx, schema.InsertBotActivity{
		Type:   schema.ActivityIncomeEvent,
		UserID: userID,
	})
	if err != nil {
		log.WithError(err).WithField("source", source).Warn("Не удалось записать событие дохода")
	}
}

// Recent возвращает последние события.
func (s *Service) Recent(ctx context.Context, limit int) ([]*schema.BotActivity, error) {
	return s.store.ListRecent(ctx, limit)
}

// CountByType считает события по типам за период.
func (s *Service) CountByType(ctx context.Context, since time.Time) (map[string]int64, error) {
	return s.store.CountByType(ctx, since)
}
