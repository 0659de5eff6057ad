// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтры и собирает бота, планировщик и API дашборда.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/api"
	"serotonyl.ru/income-bot/internal/bot"
	"serotonyl.ru/income-bot/internal/bot/filters"
	"serotonyl.ru/income-bot/internal/config"
	"serotonyl.ru/income-bot/internal/db/postgres"
	"serotonyl.ru/income-bot/internal/features/activity"
	"serotonyl.ru/income-bot/internal/features/admin"
	"serotonyl.ru/income-bot/internal/features/earnings"
	"serotonyl.ru/income-bot/internal/features/income"
	"serotonyl.ru/income-bot/internal/features/stats"
	"serotonyl.ru/income-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Stats     *stats.Service
	API       *api.Server // nil, если DASHBOARD_ENABLED=false
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	activityRepo := activity.NewRepository(pool)
	earningsRepo := earnings.NewRepository(pool)
	statsRepo := stats.NewRepository(pool)
	incomeRepo := income.NewRepository(pool)

	// === 4. Сервисы ===
	activityService := activity.NewService(activityRepo)
	earningsService := earnings.NewService(earningsRepo, activityService)
	statsService := stats.NewService(statsRepo, activityRepo)
	incomeService := income.NewService(incomeRepo, earningsService, cfg)
	adminService := admin.NewService(cfg)

	if err := incomeService.EnsureDefaults(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("источники дохода: %w", err)
	}

	// === 5. Обработчики ===
	handlers := bot.Handlers{
		Earnings: earnings.NewHandler(earningsService, botAPI, cfg.Location()),
		Stats:    stats.NewHandler(statsService, botAPI),
		Income:   income.NewHandler(incomeService, botAPI),
		Admin:    admin.NewHandler(adminService, botAPI),
	}

	// === 6. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.BotChatID, cfg.IsAdmin, botAPI)

	// === 7. Собираем бота ===
	b := bot.New(botAPI, botAPI, cfg, handlers, activityService, adminService, chatFilter)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(cfg, incomeService, statsService)

	// === 9. API дашборда ===
	var server *api.Server
	if cfg.DashboardEnabled {
		router := api.NewRouter(cfg, api.Deps{
			Stats:    statsService,
			Earnings: earningsService,
			Activity: activityService,
			Income:   incomeService,
			Sessions: adminService,
		})
		server = api.NewServer(cfg.DashboardAddr, router)
	}

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		Stats:     statsService,
		API:       server,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}
