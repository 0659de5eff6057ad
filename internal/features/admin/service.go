// Package admin — service.go содержит аутентификацию по паролю Argon2id
// и управление сессиями администраторов.
package admin

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/config"
)

// Params — параметры Argon2id.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams — m=64MB, t=3, p=2.
var DefaultParams = Params{Memory: 64 * 1024, Iterations: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32}

// Service проверяет пароли и хранит сессии в памяти.
// Перезапуск бота сбрасывает все сессии.
type Service struct {
	cfg    *config.Config
	now    func() time.Time
	verify func(password, encodedHash string) bool

	mu       sync.Mutex
	sessions map[int64]*Session // userID → сессия
	failures map[int64][]attempt
}

// NewService создаёт сервис админов.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		now:      time.Now,
		verify:   VerifyPassword,
		sessions: make(map[int64]*Session),
		failures: make(map[int64][]attempt),
	}
}

// Login проверяет пароль и открывает сессию на ADMIN_SESSION_TTL.
// 3 неудачные попытки за час блокируют вход до истечения часа.
func (s *Service) Login(userID int64, password string) (*Session, error) {
	if !s.cfg.IsAdmin(userID) {
		return nil, common.ErrNotAdmin
	}

	s.mu.Lock()
	now := s.now()
	locked := len(s.recentFailures(userID, now)) >= maxFailedAttempts
	s.mu.Unlock()
	if locked {
		return nil, common.ErrTooManyAttempts
	}

	// Argon2 занимает десятки миллисекунд, мьютекс на это время не держим
	ok := s.verify(password, s.cfg.AdminPasswordHash)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok {
		s.failures[userID] = append(s.recentFailures(userID, now), attempt{at: now})
		log.WithField("user_id", userID).Warn("Неверный пароль администратора")
		return nil, common.ErrWrongPassword
	}

	delete(s.failures, userID)
	session := &Session{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.cfg.AdminSessionTTL),
	}
	s.sessions[userID] = session
	log.WithField("user_id", userID).Info("Администратор вошёл")
	return session, nil
}

// IsAuthorized сообщает, есть ли у пользователя действующая сессия.
func (s *Service) IsAuthorized(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return false
	}
	if session.Expired(s.now()) {
		delete(s.sessions, userID)
		return false
	}
	return true
}

// SessionByToken ищет сессию по токену (для HTTP API).
func (s *Service) SessionByToken(token string) (*Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, common.ErrSessionExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for userID, session := range s.sessions {
		if subtle.ConstantTimeCompare([]byte(session.Token), []byte(token)) != 1 {
			continue
		}
		if session.Expired(now) {
			delete(s.sessions, userID)
			return nil, common.ErrSessionExpired
		}
		return session, nil
	}
	return nil, common.ErrSessionExpired
}

// Logout закрывает сессию пользователя. Возвращает false, если сессии не было.
func (s *Service) Logout(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

func (s *Service) recentFailures(userID int64, now time.Time) []attempt {
	var recent []attempt
	for _, a := range s.failures[userID] {
		if now.Sub(a.at) < lockoutWindow {
			recent = append(recent, a)
		}
	}
	return recent
}

// --- Argon2id ---

// HashPassword кодирует пароль в формат
// $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func HashPassword(password string, p Params) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("генерация соли: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// VerifyPassword сверяет пароль с хешем из HashPassword.
func VerifyPassword(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
