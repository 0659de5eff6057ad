package postgres

import (
	"testing"

	"serotonyl.ru/income-bot/internal/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{
		DBHost: "localhost", DBPort: 5432, DBUser: "bot", DBPassword: "secret",
		DBName: "income_bot", DBSSLMode: "disable", DBMaxConns: 10, DBMinConns: 2,
	}

	pc, err := PoolConfig(cfg)
	if err != nil {
		t.Fatalf("PoolConfig: %v", err)
	}
	if pc.MaxConns != 10 || pc.MinConns != 2 {
		t.Fatalf("conns = %d/%d", pc.MinConns, pc.MaxConns)
	}
	// DEFAULT NOW() и границы периодов из Go сравниваются в одной зоне
	if got := pc.ConnConfig.RuntimeParams["timezone"]; got != "UTC" {
		t.Fatalf("timezone = %q", got)
	}
}
