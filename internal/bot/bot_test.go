package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"serotonyl.ru/income-bot/internal/bot/filters"
	"serotonyl.ru/income-bot/internal/config"
	"serotonyl.ru/income-bot/internal/features/activity"
	"serotonyl.ru/income-bot/internal/features/admin"
	"serotonyl.ru/income-bot/internal/schema"
)

const botChat = -1001

type fakeSender struct {
	texts []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.texts = append(f.texts, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

type activityStore struct {
	rows []schema.InsertBotActivity
}

func (s *activityStore) Insert(_ context.Context, in schema.InsertBotActivity) (*schema.BotActivity, error) {
	s.rows = append(s.rows, in)
	return &schema.BotActivity{ID: int64(len(s.rows)), Type: in.Type, Command: in.Command, UserID: in.UserID, GuildID: in.GuildID}, nil
}

func (s *activityStore) ListRecent(context.Context, int) ([]*schema.BotActivity, error) {
	return nil, nil
}

func (s *activityStore) CountByType(context.Context, time.Time) (map[string]int64, error) {
	return nil, nil
}

type memberChecker struct{}

func (memberChecker) GetChatMember(tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	return tgbotapi.ChatMember{Status: "left"}, nil
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *activityStore) {
	t.Helper()
	cfg := &config.Config{
		BotChatID:         botChat,
		AdminIDs:          []int64{1},
		AdminSessionTTL:   time.Hour,
		BotMaxInflight:    4,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
	sender := &fakeSender{}
	store := &activityStore{}
	adminService := admin.NewService(cfg)

	b := New(nil, sender, cfg,
		Handlers{Admin: admin.NewHandler(adminService, sender)},
		activity.NewService(store),
		adminService,
		filters.NewChatFilter(botChat, cfg.IsAdmin, memberChecker{}),
	)
	t.Cleanup(b.rateLimiter.Close)
	return b, sender, store
}

func textUpdate(chatID int64, chatType string, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID, Type: chatType},
		From: &tgbotapi.User{ID: userID},
		Text: text,
	}}
}

func TestHelpIsLogged(t *testing.T) {
	b, sender, store := newTestBot(t)

	b.HandleUpdate(context.Background(), textUpdate(botChat, "supergroup", 5, "/help"))

	if len(sender.texts) != 1 || !strings.Contains(sender.texts[0], "/stats") {
		t.Fatalf("texts = %v", sender.texts)
	}
	if len(store.rows) != 1 {
		t.Fatalf("activity = %d", len(store.rows))
	}
	got := store.rows[0]
	if got.Type != schema.ActivityCommand || *got.Command != "help" || *got.UserID != "5" || *got.GuildID != "-1001" {
		t.Fatalf("activity: %+v", got)
	}
}

func TestAdminCommandNeedsSession(t *testing.T) {
	b, sender, store := newTestBot(t)

	b.HandleUpdate(context.Background(), textUpdate(botChat, "supergroup", 1, "/income_off tips"))

	if len(sender.texts) != 1 || !strings.Contains(sender.texts[0], "/login") {
		t.Fatalf("texts = %v", sender.texts)
	}
	if len(store.rows) != 1 || *store.rows[0].Command != "income_off" {
		t.Fatalf("activity: %+v", store.rows)
	}
}

func TestLoginOnlyInPrivate(t *testing.T) {
	b, sender, _ := newTestBot(t)

	b.HandleUpdate(context.Background(), textUpdate(botChat, "supergroup", 1, "/login secret"))
	if len(sender.texts) != 1 || !strings.Contains(sender.texts[0], "личных") {
		t.Fatalf("texts = %v", sender.texts)
	}
}

func TestLogout(t *testing.T) {
	b, sender, store := newTestBot(t)
	ctx := context.Background()

	b.HandleUpdate(ctx, textUpdate(botChat, "supergroup", 1, "/logout"))
	if len(sender.texts) != 1 || !strings.Contains(sender.texts[0], "нет") {
		t.Fatalf("без сессии: %v", sender.texts)
	}

	hash, err := admin.HashPassword("secret", admin.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatal(err)
	}
	b.cfg.AdminPasswordHash = hash
	if _, err := b.admins.Login(1, "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	b.HandleUpdate(ctx, textUpdate(botChat, "supergroup", 1, "/logout"))
	if len(sender.texts) != 2 || !strings.Contains(sender.texts[1], "закрыта") {
		t.Fatalf("texts = %v", sender.texts)
	}
	if b.admins.IsAuthorized(1) {
		t.Fatal("сессия осталась после /logout")
	}
	if len(store.rows) != 2 || *store.rows[1].Command != "logout" {
		t.Fatalf("activity: %+v", store.rows)
	}
}

func TestIgnoredMessages(t *testing.T) {
	b, sender, store := newTestBot(t)
	ctx := context.Background()

	b.HandleUpdate(ctx, textUpdate(botChat, "supergroup", 5, "просто текст"))
	b.HandleUpdate(ctx, textUpdate(botChat, "supergroup", 5, "/unknown"))
	b.HandleUpdate(ctx, textUpdate(-42, "group", 5, "/help"))
	b.HandleUpdate(ctx, textUpdate(5, "private", 5, "/help")) // не участник
	b.HandleUpdate(ctx, tgbotapi.Update{})

	if len(sender.texts) != 0 || len(store.rows) != 0 {
		t.Fatalf("texts = %v, activity = %d", sender.texts, len(store.rows))
	}
}

func TestNewMembersLogged(t *testing.T) {
	b, _, store := newTestBot(t)

	b.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: botChat, Type: "supergroup"},
		NewChatMembers: []tgbotapi.User{
			{ID: 7, UserName: "alice"},
			{ID: 8, IsBot: true},
		},
	}})

	if len(store.rows) != 1 {
		t.Fatalf("activity = %d", len(store.rows))
	}
	if got := store.rows[0]; got.Type != schema.ActivityUserJoin || *got.UserID != "7" || got.Command != nil {
		t.Fatalf("activity: %+v", got)
	}
}
