// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: форматирование сумм, длительностей и времени, перевод id в текст.
package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/schema"
)

// FormatAmount форматирует сумму с двумя знаками и символом валюты.
// Пример: FormatAmount(12.5) → "12.50 ₽"
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2) + " ₽"
}

// FormatSignedAmount добавляет «+» к неотрицательной сумме.
//
// Примеры:
//
//	FormatSignedAmount(3)    → "+3.00 ₽"
//	FormatSignedAmount(-0.5) → "-0.50 ₽"
func FormatSignedAmount(d decimal.Decimal) string {
	if d.Sign() >= 0 {
		return "+" + FormatAmount(d)
	}
	return FormatAmount(d)
}

// FormatUptime форматирует аптайм в секундах как "2д 3ч 4м".
// Нулевые старшие разряды опускаются, минуты выводятся всегда.
func FormatUptime(seconds int32) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dч %dм", hours, minutes)
	default:
		return fmt.Sprintf("%dм", minutes)
	}
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" в поясе loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006 15:04")
}

// IDString переводит Telegram ID в текст для колонок user_id/guild_id.
func IDString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Sender отправляет сообщения в Telegram. Реализуется *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// SendText отправляет текст в чат. Ошибка отправки только логируется.
func SendText(s Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// FormatError переводит ошибку в текст для пользователя.
// Ошибки валидации перечисляются по полям, остальные — как есть.
func FormatError(err error) string {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		lines := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			lines = append(lines, "• "+f.String())
		}
		return "❌ Проверьте данные:\n" + strings.Join(lines, "\n")
	}
	return "❌ " + err.Error()
}
