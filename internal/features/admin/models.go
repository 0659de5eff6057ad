// Package admin — models.go описывает сессии администратора.
package admin

import "time"

// Session — активная сессия администратора.
// Token передаётся дашборду в заголовке Authorization: Bearer <token>.
type Session struct {
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// attempt — неудачная попытка входа.
type attempt struct {
	at time.Time
}

const (
	maxFailedAttempts = 3
	lockoutWindow     = time.Hour
)
