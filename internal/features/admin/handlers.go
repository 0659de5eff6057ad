// Package admin — handlers.go обрабатывает /login и /logout.
package admin

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/common"
)

// Handler обрабатывает админ-команды.
type Handler struct {
	service *Service
	sender  common.Sender
}

// NewHandler создаёт обработчик.
func NewHandler(service *Service, sender common.Sender) *Handler {
	return &Handler{service: service, sender: sender}
}

// HandleLogin — /login <пароль>. Только в личке: пароль не должен попадать в группу.
func (h *Handler) HandleLogin(chatID, userID int64, private bool, args []string) {
	if !private {
		common.SendText(h.sender, chatID, "🔐 Войти можно только в личных сообщениях с ботом")
		return
	}
	if len(args) < 1 {
		common.SendText(h.sender, chatID, "Формат: /login <пароль>")
		return
	}

	session, err := h.service.Login(userID, args[0])
	if err != nil {
		common.SendText(h.sender, chatID, common.FormatError(err))
		return
	}
	common.SendText(h.sender, chatID, fmt.Sprintf(
		"✅ Вход выполнен\nТокен для дашборда: %s\nДействует до %s",
		session.Token, common.FormatDateTime(session.ExpiresAt, h.service.cfg.Location())))
}

// HandleLogout — /logout. Закрывает сессию, токен дашборда перестаёт работать.
func (h *Handler) HandleLogout(chatID, userID int64) {
	if !h.service.Logout(userID) {
		common.SendText(h.sender, chatID, "Активной сессии нет")
		return
	}
	log.WithField("user_id", userID).Info("Администратор вышел")
	common.SendText(h.sender, chatID, "✅ Сессия закрыта")
}
