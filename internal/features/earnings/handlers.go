// Package earnings — handlers.go обрабатывает команду /earnings (сводка доходов).
package earnings

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/schema"
)

// Handler обрабатывает команды доходов.
type Handler struct {
	service *Service
	sender  common.Sender
	loc     *time.Location
}

// NewHandler создаёт обработчик команд доходов.
func NewHandler(service *Service, sender common.Sender, loc *time.Location) *Handler {
	return &Handler{service: service, sender: sender, loc: loc}
}

// HandleEarnings обрабатывает /earnings — сводка за сутки и последние поступления.
//
// Формат ответа:
//
//	💰 Доход за 24ч: +27.50 ₽ (3)
//	  tip: +12.50 ₽ (1)
//	  auto: +15.00 ₽ (2)
//
//	📋 Последние:
//	1. 01.03.2024 12:00 | +12.50 ₽ | tip | tip from user123
func (h *Handler) HandleEarnings(ctx context.Context, chatID int64) {
	summary, err := h.service.Summary(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		log.WithError(err).Error("Ошибка получения сводки доходов")
		common.SendText(h.sender, chatID, "❌ Ошибка получения доходов")
		return
	}

	recent, err := h.service.Recent(ctx, 5)
	if err != nil {
		log.WithError(err).Error("Ошибка получения последних доходов")
		common.SendText(h.sender, chatID, "❌ Ошибка получения доходов")
		return
	}

	common.SendText(h.sender, chatID, FormatReport(summary, recent, h.loc))
}

// FormatReport собирает текст сводки.
func FormatReport(summary *Summary, recent []*schema.Earning, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💰 Доход за 24ч: %s (%d)\n", common.FormatSignedAmount(summary.Total), summary.Count))
	for _, st := range summary.BySource {
		sb.WriteString(fmt.Sprintf("  %s: %s (%d)\n", st.Source, common.FormatSignedAmount(st.Total), st.Count))
	}

	if len(recent) == 0 {
		sb.WriteString("\n📋 Поступлений пока нет")
		return sb.String()
	}

	sb.WriteString("\n📋 Последние:\n")
	for i, e := range recent {
		sb.WriteString(fmt.Sprintf("%d. %s | %s | %s | %s\n",
			i+1,
			common.FormatDateTime(e.Timestamp, loc),
			common.FormatSignedAmount(e.Amount),
			e.Source,
			e.Description,
		))
	}
	return sb.String()
}
