// Package stats — service.go поддерживает одну актуальную строку bot_stats.
//
// Схема не ограничивает число строк, поэтому единственность держит сервис:
// первая отметка создаёт строку, следующие обновляют последнюю.
package stats

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/schema"
)

// Store — хранилище статистики. Реализуется *Repository.
type Store interface {
	Insert(ctx context.Context, in schema.InsertBotStats) (*schema.BotStats, error)
	Latest(ctx context.Context) (*schema.BotStats, error)
	Update(ctx context.Context, id int64, in schema.InsertBotStats) (*schema.BotStats, error)
}

// Counter считает уникальных пользователей и чаты. Реализуется activity.Repository.
type Counter interface {
	CountDistinct(ctx context.Context) (users, guilds int32, err error)
}

// Service обновляет снимок статистики.
type Service struct {
	store     Store
	counter   Counter
	startedAt time.Time
	now       func() time.Time

	mu    sync.Mutex
	rowID int64 // id строки, которую обновляем; 0 — ещё не нашли
}

// NewService создаёт сервис статистики. Аптайм считается от момента создания.
func NewService(store Store, counter Counter) *Service {
	return &Service{
		store:     store,
		counter:   counter,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// Heartbeat записывает актуальное состояние: онлайн, аптайм, пользователи, чаты.
func (s *Service) Heartbeat(ctx context.Context) (*schema.BotStats, error) {
	users, guilds, err := s.counter.CountDistinct(ctx)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, schema.InsertBotStats{
		IsOnline:    schema.Bool(true),
		Uptime:      schema.Int32(s.uptime()),
		TotalUsers:  schema.Int32(users),
		TotalGuilds: schema.Int32(guilds),
	})
}

// MarkOffline отмечает бота офлайн, сохраняя последние счётчики.
func (s *Service) MarkOffline(ctx context.Context) error {
	in := schema.InsertBotStats{IsOnline: schema.Bool(false), Uptime: schema.Int32(s.uptime())}
	if cur, err := s.store.Latest(ctx); err == nil {
		in.TotalUsers = schema.Int32(cur.TotalUsers)
		in.TotalGuilds = schema.Int32(cur.TotalGuilds)
	}
	_, err := s.save(ctx, in)
	return err
}

// Current возвращает последний снимок.
func (s *Service) Current(ctx context.Context) (*schema.BotStats, error) {
	return s.store.Latest(ctx)
}

func (s *Service) save(ctx context.Context, in schema.InsertBotStats) (*schema.BotStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rowID == 0 {
		latest, err := s.store.Latest(ctx)
		switch {
		case errors.Is(err, common.ErrNoStats):
			created, err := s.store.Insert(ctx, in)
			if err != nil {
				return nil, err
			}
			s.rowID = created.ID
			log.WithField("id", created.ID).Info("Создана строка статистики бота")
			return created, nil
		case err != nil:
			return nil, err
		}
		s.rowID = latest.ID
	}

	updated, err := s.store.Update(ctx, s.rowID, in)
	if errors.Is(err, common.ErrNoStats) {
		// Строку удалили снаружи — начинаем заново
		s.rowID = 0
	}
	return updated, err
}

func (s *Service) uptime() int32 {
	sec := s.now().Sub(s.startedAt) / time.Second
	if sec > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(sec)
}
