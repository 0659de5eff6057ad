// Package schema описывает таблицы, записи и insert-схемы бота доходов.
// table.go — декларации колонок. Каждая таблица объявляется один раз,
// а DDL, списки колонок для SELECT/INSERT и плейсхолдеры выводятся из неё.
package schema

import (
	"fmt"
	"strings"
)

// Column — одна колонка таблицы.
type Column struct {
	Name       string // Имя колонки в БД (snake_case)
	SQLType    string // Тип PostgreSQL: SERIAL, TEXT, NUMERIC(10, 2), ...
	NotNull    bool   // NOT NULL
	Default    string // SQL-выражение DEFAULT (пусто — без дефолта)
	PrimaryKey bool   // PRIMARY KEY
	Generated  bool   // Значение назначает система — колонка исключается из insert-схемы
}

// IsMoney сообщает, хранится ли колонка как фиксированная десятичная дробь.
func (c Column) IsMoney() bool {
	return strings.HasPrefix(c.SQLType, "NUMERIC")
}

// Quoted возвращает имя колонки в двойных кавычках ("timestamp" — ключевое слово).
func (c Column) Quoted() string {
	return `"` + c.Name + `"`
}

// definition собирает определение колонки для CREATE TABLE.
func (c Column) definition() string {
	var sb strings.Builder
	sb.WriteString(c.Quoted())
	sb.WriteString(" ")
	sb.WriteString(c.SQLType)
	if c.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if c.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(c.Default)
	}
	return sb.String()
}

// Table — именованный набор колонок.
type Table struct {
	Name    string
	Columns []Column
}

// CreateSQL возвращает DDL таблицы.
//
// Пример:
//
//	CREATE TABLE IF NOT EXISTS earnings (
//	    "id" SERIAL PRIMARY KEY,
//	    "amount" NUMERIC(10, 2) NOT NULL,
//	    ...
//	);
func (t Table) CreateSQL() string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, "    "+c.definition())
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);", t.Name, strings.Join(defs, ",\n"))
}

// Column ищет колонку по имени.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// InsertColumns возвращает колонки insert-схемы: все, кроме Generated.
func (t Table) InsertColumns() []Column {
	out := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Generated {
			out = append(out, c)
		}
	}
	return out
}

// SelectList возвращает список выражений для SELECT/RETURNING.
// Денежные колонки приводятся к тексту, чтобы не терять точность.
func (t Table) SelectList() string {
	exprs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.IsMoney() {
			exprs = append(exprs, c.Quoted()+"::text")
			continue
		}
		exprs = append(exprs, c.Quoted())
	}
	return strings.Join(exprs, ", ")
}

// InsertSQL собирает INSERT ... RETURNING <все колонки>.
// Порядок параметров совпадает с InsertColumns.
func (t Table) InsertSQL() string {
	cols := t.InsertColumns()
	names := make([]string, 0, len(cols))
	params := make([]string, 0, len(cols))
	for i, c := range cols {
		names = append(names, c.Quoted())
		params = append(params, placeholder(c, i+1))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.Name, strings.Join(names, ", "), strings.Join(params, ", "), t.SelectList())
}

// UpdateSQL собирает UPDATE по id. $1 — id, далее колонки insert-схемы.
// extra добавляется в SET как есть (например, `"last_update" = NOW()`).
func (t Table) UpdateSQL(extra ...string) string {
	cols := t.InsertColumns()
	sets := make([]string, 0, len(cols)+len(extra))
	for i, c := range cols {
		sets = append(sets, c.Quoted()+" = "+placeholder(c, i+2))
	}
	sets = append(sets, extra...)
	return fmt.Sprintf("UPDATE %s SET %s WHERE \"id\" = $1 RETURNING %s",
		t.Name, strings.Join(sets, ", "), t.SelectList())
}

// Деньги передаются строкой и приводятся на стороне БД.
func placeholder(c Column, n int) string {
	if c.IsMoney() {
		return fmt.Sprintf("$%d::text::numeric", n)
	}
	return fmt.Sprintf("$%d", n)
}

// Таблицы бота. Порядок колонок — контракт для Values() и Scan*.
var (
	EarningsTable = Table{
		Name: "earnings",
		Columns: []Column{
			{Name: "id", SQLType: "SERIAL", PrimaryKey: true, Generated: true},
			{Name: "amount", SQLType: moneySQLType, NotNull: true},
			{Name: "source", SQLType: "TEXT", NotNull: true}, // 'tip', 'command', 'auto'
			{Name: "user_id", SQLType: "TEXT"},
			{Name: "description", SQLType: "TEXT", NotNull: true},
			{Name: "timestamp", SQLType: "TIMESTAMP", NotNull: true, Default: "NOW()", Generated: true},
		},
	}

	BotActivityTable = Table{
		Name: "bot_activity",
		Columns: []Column{
			{Name: "id", SQLType: "SERIAL", PrimaryKey: true, Generated: true},
			{Name: "type", SQLType: "TEXT", NotNull: true}, // 'command', 'income_event', 'user_join', ...
			{Name: "command", SQLType: "TEXT"},
			{Name: "user_id", SQLType: "TEXT"},
			{Name: "guild_id", SQLType: "TEXT"},
			{Name: "timestamp", SQLType: "TIMESTAMP", NotNull: true, Default: "NOW()", Generated: true},
		},
	}

	BotStatsTable = Table{
		Name: "bot_stats",
		Columns: []Column{
			{Name: "id", SQLType: "SERIAL", PrimaryKey: true, Generated: true},
			{Name: "is_online", SQLType: "BOOLEAN", NotNull: true, Default: "TRUE"},
			{Name: "uptime", SQLType: "INTEGER", NotNull: true, Default: "0"}, // секунды
			{Name: "total_users", SQLType: "INTEGER", NotNull: true, Default: "0"},
			{Name: "total_guilds", SQLType: "INTEGER", NotNull: true, Default: "0"},
			{Name: "last_update", SQLType: "TIMESTAMP", NotNull: true, Default: "NOW()", Generated: true},
		},
	}

	IncomeConfigTable = Table{
		Name: "income_config",
		Columns: []Column{
			{Name: "id", SQLType: "SERIAL", PrimaryKey: true, Generated: true},
			{Name: "source_name", SQLType: "TEXT", NotNull: true}, // 'tips', 'commands', 'auto'
			{Name: "enabled", SQLType: "BOOLEAN", NotNull: true, Default: "TRUE"},
			{Name: "min_rate", SQLType: moneySQLType, NotNull: true},
			{Name: "max_rate", SQLType: moneySQLType, NotNull: true},
		},
	}
)

// Tables — все таблицы в порядке создания.
var Tables = []Table{EarningsTable, BotActivityTable, BotStatsTable, IncomeConfigTable}
