// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: автоматический доход
// и heartbeat статистики бота.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/bot/middleware"
	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/config"
	"serotonyl.ru/income-bot/internal/schema"
)

// Roller начисляет доход по каналу. Реализуется *income.Service.
type Roller interface {
	Roll(ctx context.Context, source string, userID *string) (*schema.Earning, error)
}

// Heartbeater обновляет bot_stats. Реализуется *stats.Service.
type Heartbeater interface {
	Heartbeat(ctx context.Context) (*schema.BotStats, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron   *cron.Cron
	cfg    *config.Config
	income Roller
	stats  Heartbeater
}

// NewScheduler создаёт планировщик в часовом поясе APP_TIMEZONE.
func NewScheduler(cfg *config.Config, income Roller, stats Heartbeater) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(cfg.Location())),
		cfg:    cfg,
		income: income,
		stats:  stats,
	}
}

// Start регистрирует задачи и запускает cron. Некорректное расписание — ошибка.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		name     string
		schedule string
		run      func(ctx context.Context)
	}{
		{"auto_income", s.cfg.IncomeAutoSchedule, s.runAutoIncome},
		{"stats_heartbeat", s.cfg.StatsHeartbeatSchedule, s.runHeartbeat},
	}

	for _, j := range jobs {
		run := j.run
		name := j.name
		if _, err := s.cron.AddFunc(j.schedule, func() {
			defer middleware.RecoverFromPanic("cron_" + name)
			run(ctx)
		}); err != nil {
			return fmt.Errorf("расписание %s %q: %w", name, j.schedule, err)
		}
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"auto_income": s.cfg.IncomeAutoSchedule,
		"heartbeat":   s.cfg.StatsHeartbeatSchedule,
		"tz":          s.cfg.AppTimezone,
	}).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

func (s *Scheduler) runAutoIncome(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	e, err := s.income.Roll(ctx, schema.SourceAuto, nil)
	switch {
	case errors.Is(err, common.ErrSourceDisabled):
		log.Debug("[CRON] Автоматический доход выключен")
	case err != nil:
		log.WithError(err).Error("[CRON] Ошибка автоматического дохода")
	default:
		log.WithField("amount", schema.FormatMoney(e.Amount)).Info("[CRON] Начислен автоматический доход")
	}
}

func (s *Scheduler) runHeartbeat(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.stats.Heartbeat(ctx); err != nil {
		log.WithError(err).Error("[CRON] Ошибка обновления статистики")
	}
}
