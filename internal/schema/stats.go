package schema

import "time"

// BotStats — текущий снимок состояния бота.
// Предполагается одна актуальная строка (последняя); схема это не навязывает.
type BotStats struct {
	ID          int64     `json:"id"`
	IsOnline    bool      `json:"isOnline"`
	Uptime      int32     `json:"uptime"` // секунды
	TotalUsers  int32     `json:"totalUsers"`
	TotalGuilds int32     `json:"totalGuilds"`
	LastUpdate  time.Time `json:"lastUpdate"`
}

// InsertBotStats — insert-схема BotStats: без id и lastUpdate.
// nil-поля получают дефолты: isOnline = true, счётчики = 0.
type InsertBotStats struct {
	IsOnline    *bool  `json:"isOnline,omitempty"`
	Uptime      *int32 `json:"uptime,omitempty"`
	TotalUsers  *int32 `json:"totalUsers,omitempty"`
	TotalGuilds *int32 `json:"totalGuilds,omitempty"`
}

// WithDefaults возвращает копию с заполненными дефолтами.
func (in InsertBotStats) WithDefaults() InsertBotStats {
	if in.IsOnline == nil {
		in.IsOnline = Bool(true)
	}
	if in.Uptime == nil {
		in.Uptime = Int32(0)
	}
	if in.TotalUsers == nil {
		in.TotalUsers = Int32(0)
	}
	if in.TotalGuilds == nil {
		in.TotalGuilds = Int32(0)
	}
	return in
}

// Table возвращает таблицу bot_stats.
func (InsertBotStats) Table() Table { return BotStatsTable }

// Values возвращает параметры INSERT в порядке BotStatsTable.InsertColumns().
// Дефолты подставляются здесь же.
func (in InsertBotStats) Values() []any {
	d := in.WithDefaults()
	return []any{*d.IsOnline, *d.Uptime, *d.TotalUsers, *d.TotalGuilds}
}

// ScanBotStats читает строку, выбранную через BotStatsTable.SelectList().
func ScanBotStats(row Row) (*BotStats, error) {
	var s BotStats
	if err := row.Scan(&s.ID, &s.IsOnline, &s.Uptime, &s.TotalUsers, &s.TotalGuilds, &s.LastUpdate); err != nil {
		return nil, err
	}
	return &s, nil
}
