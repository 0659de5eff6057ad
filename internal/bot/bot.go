// Package bot содержит главный модуль бота — приём апдейтов и маршрутизацию команд.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/bot/filters"
	"serotonyl.ru/income-bot/internal/bot/middleware"
	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/config"
	"serotonyl.ru/income-bot/internal/features/activity"
	"serotonyl.ru/income-bot/internal/features/admin"
	"serotonyl.ru/income-bot/internal/features/earnings"
	"serotonyl.ru/income-bot/internal/features/income"
	"serotonyl.ru/income-bot/internal/features/stats"
)

const helpText = `🤖 Бот учёта доходов

/stats — состояние бота
/earnings — доход за сутки
/tip <сумма> [описание] — оставить чаевые
/work — поработать за вознаграждение
/income — источники дохода

Админам (после /login <пароль> в личке):
/income_set <источник> <min> <max>
/income_on <источник>, /income_off <источник>
/logout — закрыть сессию`

// Handlers — обработчики команд по фичам.
type Handlers struct {
	Earnings *earnings.Handler
	Stats    *stats.Handler
	Income   *income.Handler
	Admin    *admin.Handler
}

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api    *tgbotapi.BotAPI
	sender common.Sender
	cfg    *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter
	parser      *CommandParser

	handlers Handlers
	activity *activity.Service
	admins   *admin.Service

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт бота. api может быть nil в тестах, тогда Start недоступен.
func New(
	api *tgbotapi.BotAPI,
	sender common.Sender,
	cfg *config.Config,
	handlers Handlers,
	activityService *activity.Service,
	adminService *admin.Service,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:         api,
		sender:      sender,
		cfg:         cfg,
		chatFilter:  chatFilter,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		parser:      NewCommandParser(),
		handlers:    handlers,
		activity:    activityService,
		admins:      adminService,
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram. Блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds
	u.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.rateLimiter.Close()
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.HandleUpdate(ctx, upd)
			}(update)
		}
	}
}

// HandleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic("update")

	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}

	// Вступление участников в чат бота
	if len(message.NewChatMembers) > 0 {
		if message.Chat.ID == b.cfg.BotChatID {
			b.handleNewMembers(ctx, message.Chat.ID, message.NewChatMembers)
		}
		return
	}

	if message.Text == "" || message.From == nil {
		return
	}
	middleware.LogMessage(message)

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	if !b.chatFilter.CheckAccess(message) {
		return
	}

	userID := message.From.ID
	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	b.routeCommand(ctx, message.Chat.ID, userID, message.Chat.IsPrivate(), cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
// Каждая известная команда пишется в bot_activity.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, private bool, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":     cmd,
		"user_id": userID,
	}).Debug("routing command")

	switch cmd {
	case "start", "help":
		common.SendText(b.sender, chatID, helpText)
	case "stats":
		b.handlers.Stats.HandleStats(ctx, chatID)
	case "earnings":
		b.handlers.Earnings.HandleEarnings(ctx, chatID)
	case "tip":
		b.handlers.Income.HandleTip(ctx, chatID, userID, args)
	case "work":
		b.handlers.Income.HandleWork(ctx, chatID, userID)
	case "income":
		b.handlers.Income.HandleList(ctx, chatID)
	case "login":
		b.handlers.Admin.HandleLogin(chatID, userID, private, args)
	case "logout":
		b.handlers.Admin.HandleLogout(chatID, userID)
	case "income_set", "income_on", "income_off":
		if !b.admins.IsAuthorized(userID) {
			common.SendText(b.sender, chatID, "🔐 Команда для админов. Войдите: /login <пароль> в личке")
			break
		}
		switch cmd {
		case "income_set":
			b.handlers.Income.HandleSet(ctx, chatID, args)
		case "income_on":
			b.handlers.Income.HandleToggle(ctx, chatID, args, true)
		case "income_off":
			b.handlers.Income.HandleToggle(ctx, chatID, args, false)
		}
	default:
		return
	}

	if err := b.activity.LogCommand(ctx, cmd, userID, chatID); err != nil {
		log.WithError(err).WithField("cmd", cmd).Warn("Не удалось записать команду в журнал")
	}
}

// handleNewMembers пишет user_join для каждого вступившего (ботов пропускаем).
func (b *Bot) handleNewMembers(ctx context.Context, chatID int64, newMembers []tgbotapi.User) {
	for _, user := range newMembers {
		if user.IsBot {
			continue
		}
		if err := b.activity.LogJoin(ctx, user.ID, chatID); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Warn("Не удалось записать вступление")
			continue
		}
		log.WithField("user", user.UserName).Info("Новый участник записан")
	}
}
