package schema

import "time"

// Типичные типы событий бота. Список открытый.
const (
	ActivityCommand     = "command"
	ActivityIncomeEvent = "income_event"
	ActivityUserJoin    = "user_join"
)

// BotActivity — запись журнала событий бота. Только добавление.
type BotActivity struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Command   *string   `json:"command"` // Заполнено только для type = command
	UserID    *string   `json:"userId"`
	GuildID   *string   `json:"guildId"`
	Timestamp time.Time `json:"timestamp"`
}

// InsertBotActivity — insert-схема BotActivity: без id и timestamp.
type InsertBotActivity struct {
	Type    string  `json:"type" validate:"required"`
	Command *string `json:"command,omitempty"`
	UserID  *string `json:"userId,omitempty"`
	GuildID *string `json:"guildId,omitempty"`
}

// Table возвращает таблицу bot_activity.
func (InsertBotActivity) Table() Table { return BotActivityTable }

// Values возвращает параметры INSERT в порядке BotActivityTable.InsertColumns().
func (in InsertBotActivity) Values() []any {
	return []any{in.Type, in.Command, in.UserID, in.GuildID}
}

// ScanBotActivity читает строку, выбранную через BotActivityTable.SelectList().
func ScanBotActivity(row Row) (*BotActivity, error) {
	var a BotActivity
	if err := row.Scan(&a.ID, &a.Type, &a.Command, &a.UserID, &a.GuildID, &a.Timestamp); err != nil {
		return nil, err
	}
	return &a, nil
}
