package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute, func() time.Time { return now })
	defer rl.Close()

	if !rl.Allow(1) || !rl.Allow(1) {
		t.Fatal("первые два запроса должны пройти")
	}
	if rl.Allow(1) {
		t.Fatal("третий запрос в окне должен быть отклонён")
	}
	if !rl.Allow(2) {
		t.Fatal("лимит считается на пользователя")
	}

	now = now.Add(time.Minute + time.Second)
	if !rl.Allow(1) {
		t.Fatal("после окна запрос должен пройти")
	}

	now = now.Add(2 * time.Minute)
	if left := rl.Sweep(); left != 0 {
		t.Fatalf("после очистки осталось %d", left)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"привет мир", 6, "привет..."},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestRecoverFromPanic(t *testing.T) {
	func() {
		defer RecoverFromPanic("test")
		panic("boom")
	}()
}
