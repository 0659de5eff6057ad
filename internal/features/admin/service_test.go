package admin

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/config"
)

var fastParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	hash, err := HashPassword("secret", fastParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	cfg := &config.Config{
		AdminIDs:          []int64{42},
		AdminPasswordHash: hash,
		AdminSessionTTL:   time.Hour,
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(cfg)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestHashFormat(t *testing.T) {
	hash, err := HashPassword("pw", fastParams)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("hash = %s", hash)
	}
	if !VerifyPassword("pw", hash) || VerifyPassword("PW", hash) {
		t.Fatal("проверка пароля работает неверно")
	}
	if VerifyPassword("pw", "plain") {
		t.Fatal("принят хеш неверного формата")
	}
}

func TestLogin(t *testing.T) {
	svc, now := newTestService(t)

	if _, err := svc.Login(7, "secret"); !errors.Is(err, common.ErrNotAdmin) {
		t.Fatalf("не админ: %v", err)
	}

	session, err := svc.Login(42, "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !svc.IsAuthorized(42) {
		t.Fatal("сессия не создана")
	}
	if got, err := svc.SessionByToken(session.Token); err != nil || got.UserID != 42 {
		t.Fatalf("SessionByToken: %v %+v", err, got)
	}

	*now = now.Add(2 * time.Hour)
	if svc.IsAuthorized(42) {
		t.Fatal("сессия должна истечь")
	}
	if _, err := svc.SessionByToken(session.Token); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("истёкший токен: %v", err)
	}
}

func TestLoginLockout(t *testing.T) {
	svc, now := newTestService(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.Login(42, "wrong"); !errors.Is(err, common.ErrWrongPassword) {
			t.Fatalf("попытка %d: %v", i+1, err)
		}
	}
	// Даже верный пароль отклоняется во время блокировки
	if _, err := svc.Login(42, "secret"); !errors.Is(err, common.ErrTooManyAttempts) {
		t.Fatalf("ожидалась блокировка: %v", err)
	}

	*now = now.Add(time.Hour + time.Minute)
	if _, err := svc.Login(42, "secret"); err != nil {
		t.Fatalf("после блокировки: %v", err)
	}
}

func TestSessionByTokenUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	for _, token := range []string{"", "not-a-uuid", "6f1c2b8e-4d0a-4a57-9a55-2f0d6b3e9c11"} {
		if _, err := svc.SessionByToken(token); !errors.Is(err, common.ErrSessionExpired) {
			t.Errorf("SessionByToken(%q): %v", token, err)
		}
	}
}

func TestLogout(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Login(42, "secret"); err != nil {
		t.Fatal(err)
	}
	if !svc.Logout(42) {
		t.Fatal("Logout должен найти сессию")
	}
	if svc.IsAuthorized(42) {
		t.Fatal("сессия осталась после Logout")
	}
	if svc.Logout(42) {
		t.Fatal("повторный Logout без сессии")
	}
}

func TestLoginVerifiesWithoutLock(t *testing.T) {
	svc, _ := newTestService(t)
	svc.verify = func(password, hash string) bool {
		// Пока идёт проверка пароля, остальные вызовы сервиса не блокируются
		svc.IsAuthorized(7)
		return VerifyPassword(password, hash)
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Login(42, "secret")
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Login держит мьютекс во время проверки пароля")
	}
	if !svc.IsAuthorized(42) {
		t.Fatal("сессия не создана")
	}
}

func TestLoginConcurrentFailuresCounted(t *testing.T) {
	svc, _ := newTestService(t)
	svc.verify = func(string, string) bool { return false }

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Login(42, "wrong")
		}()
	}
	wg.Wait()

	if _, err := svc.Login(42, "secret"); !errors.Is(err, common.ErrTooManyAttempts) {
		t.Fatalf("ожидалась блокировка после 3 параллельных попыток: %v", err)
	}
}
