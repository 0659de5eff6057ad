package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"serotonyl.ru/income-bot/internal/schema"
)

type memStore struct {
	rows []*schema.BotActivity
	fail error
}

func (m *memStore) Insert(_ context.Context, in schema.InsertBotActivity) (*schema.BotActivity, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	a := &schema.BotActivity{
		ID:        int64(len(m.rows) + 1),
		Type:      in.Type,
		Command:   in.Command,
		UserID:    in.UserID,
		GuildID:   in.GuildID,
		Timestamp: time.Now(),
	}
	m.rows = append(m.rows, a)
	return a, nil
}

func (m *memStore) ListRecent(_ context.Context, limit int) ([]*schema.BotActivity, error) {
	var out []*schema.BotActivity
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.rows[i])
	}
	return out, nil
}

func (m *memStore) CountByType(_ context.Context, since time.Time) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, a := range m.rows {
		if !a.Timestamp.Before(since) {
			out[a.Type]++
		}
	}
	return out, nil
}

func TestLogCommand(t *testing.T) {
	store := &memStore{}
	svc := NewService(store)

	if err := svc.LogCommand(context.Background(), "stats", 42, -100); err != nil {
		t.Fatalf("LogCommand: %v", err)
	}
	if len(store.rows) != 1 {
		t.Fatalf("rows = %d", len(store.rows))
	}
	a := store.rows[0]
	if a.Type != schema.ActivityCommand || *a.Command != "stats" || *a.UserID != "42" || *a.GuildID != "-100" {
		t.Fatalf("записано %+v", a)
	}
	if a.ID != 1 || a.Timestamp.IsZero() {
		t.Fatalf("id/timestamp не назначены: %+v", a)
	}
}

func TestLogRejectsMissingType(t *testing.T) {
	store := &memStore{}
	_, err := NewService(store).Log(context.Background(), schema.InsertBotActivity{Command: schema.Text("x")})

	var verr *schema.ValidationError
	if !errors.As(err, &verr) || !verr.Has("type") {
		t.Fatalf("ожидалась ошибка по type, получено %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("невалидное событие не должно сохраняться")
	}
}

func TestLogJoinAndIncome(t *testing.T) {
	store := &memStore{}
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.LogJoin(ctx, 7, -100); err != nil {
		t.Fatalf("LogJoin: %v", err)
	}
	svc.LogIncome(ctx, schema.SourceAuto, nil)

	counts, err := svc.CountByType(ctx, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("CountByType: %v", err)
	}
	if counts[schema.ActivityUserJoin] != 1 || counts[schema.ActivityIncomeEvent] != 1 {
		t.Fatalf("counts = %v", counts)
	}

	recent, _ := svc.Recent(ctx, 1)
	if len(recent) != 1 || recent[0].Type != schema.ActivityIncomeEvent || recent[0].UserID != nil {
		t.Fatalf("recent = %+v", recent)
	}
	if recent[0].Command != nil {
		t.Fatalf("income_event с command = %q", *recent[0].Command)
	}

	store.fail = errors.New("db down")
	svc.LogIncome(ctx, schema.SourceTip, nil) // не паникует и не возвращает ошибку
}
