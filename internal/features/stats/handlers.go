// Package stats — handlers.go обрабатывает команду /stats.
package stats

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/schema"
)

// Handler обрабатывает команды статистики.
type Handler struct {
	service *Service
	sender  common.Sender
}

// NewHandler создаёт обработчик статистики.
func NewHandler(service *Service, sender common.Sender) *Handler {
	return &Handler{service: service, sender: sender}
}

// HandleStats — команда /stats.
//
// Формат ответа:
//
//	🤖 Онлайн, аптайм 2ч 5м
//	👥 Пользователей: 12, чатов: 2
func (h *Handler) HandleStats(ctx context.Context, chatID int64) {
	st, err := h.service.Current(ctx)
	if errors.Is(err, common.ErrNoStats) {
		common.SendText(h.sender, chatID, "🤖 "+err.Error())
		return
	}
	if err != nil {
		log.WithError(err).Error("Ошибка получения статистики")
		common.SendText(h.sender, chatID, "❌ Ошибка получения статистики")
		return
	}
	common.SendText(h.sender, chatID, FormatStats(st))
}

// FormatStats собирает текст ответа /stats.
func FormatStats(st *schema.BotStats) string {
	status := "Онлайн"
	if !st.IsOnline {
		status = "Офлайн"
	}
	return fmt.Sprintf("🤖 %s, аптайм %s\n👥 Пользователей: %d, чатов: %d",
		status, common.FormatUptime(st.Uptime), st.TotalUsers, st.TotalGuilds)
}
