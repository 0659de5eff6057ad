// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки доходов
var (
	// ErrSourceDisabled — источник дохода выключен или не настроен
	ErrSourceDisabled = errors.New("источник дохода выключен")
	// ErrSourceNotFound — в income_config нет такого источника
	ErrSourceNotFound = errors.New("источник дохода не найден")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
)

// Ошибки статистики
var (
	// ErrNoStats — в bot_stats ещё нет ни одной строки
	ErrNoStats = errors.New("статистика ещё не собрана")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессия истекла или не создавалась
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
