package postgres

import (
	"strings"
	"testing"
)

func TestMigrationsOrdered(t *testing.T) {
	ms := Migrations()
	if len(ms) != 5 {
		t.Fatalf("ожидалось 5 миграций, получено %d", len(ms))
	}
	for i, m := range ms {
		if m.Version != i+1 {
			t.Errorf("миграция %d имеет версию %d", i, m.Version)
		}
		if strings.TrimSpace(m.SQL) == "" {
			t.Errorf("миграция %d пустая", m.Version)
		}
	}
	want := []string{"earnings", "bot_activity", "bot_stats", "income_config"}
	for i, name := range want {
		if !strings.Contains(ms[i].SQL, "CREATE TABLE IF NOT EXISTS "+name+" (") {
			t.Errorf("миграция %d не создаёт %s", i+1, name)
		}
	}
}
