// Package filters решает, обрабатывать ли сообщение.
package filters

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// MemberChecker запрашивает статус участника чата. Реализуется *tgbotapi.BotAPI.
type MemberChecker interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// memberCacheTTL — сколько помним подтверждённое членство.
const memberCacheTTL = 10 * time.Minute

// ChatFilter пропускает сообщения из чата бота и личку его участников и админов.
type ChatFilter struct {
	botChatID int64
	isAdmin   func(userID int64) bool
	checker   MemberChecker
	now       func() time.Time

	mu      sync.Mutex
	members map[int64]time.Time // userID → когда подтверждено
}

// NewChatFilter создаёт фильтр.
func NewChatFilter(botChatID int64, isAdmin func(int64) bool, checker MemberChecker) *ChatFilter {
	return &ChatFilter{
		botChatID: botChatID,
		isAdmin:   isAdmin,
		checker:   checker,
		now:       time.Now,
		members:   make(map[int64]time.Time),
	}
}

// CheckAccess сообщает, нужно ли обрабатывать сообщение.
func (f *ChatFilter) CheckAccess(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil || message.From == nil {
		return false
	}

	chatID := message.Chat.ID
	userID := message.From.ID
	logger := log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   chatID,
		"chat_type": message.Chat.Type,
		"user_id":   userID,
	})

	// 1) Чат бота
	if chatID == f.botChatID {
		return true
	}

	// 2) Остальные группы игнорируем
	if !message.Chat.IsPrivate() {
		logger.Debug("deny: чужой чат")
		return false
	}

	// 3) Личка: админы всегда, остальные — если состоят в чате бота
	if f.isAdmin(userID) || f.cachedMember(userID) {
		return true
	}

	cm, err := f.checker.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: f.botChatID,
			UserID: userID,
		},
	})
	if err != nil {
		logger.WithError(err).Error("member check failed (telegram GetChatMember)")
		return false
	}

	switch cm.Status {
	case "creator", "administrator", "member", "restricted":
		f.remember(userID)
		logger.WithField("tg_status", cm.Status).Debug("allow: участник чата")
		return true
	default:
		logger.WithField("tg_status", cm.Status).Info("deny: не участник чата")
		return false
	}
}

func (f *ChatFilter) cachedMember(userID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	at, ok := f.members[userID]
	if !ok {
		return false
	}
	if f.now().Sub(at) > memberCacheTTL {
		delete(f.members, userID)
		return false
	}
	return true
}

func (f *ChatFilter) remember(userID int64) {
	f.mu.Lock()
	f.members[userID] = f.now()
	f.mu.Unlock()
}
