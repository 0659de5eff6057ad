package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типичные источники дохода. Колонка source — свободный текст, список не закрыт.
const (
	SourceTip     = "tip"
	SourceCommand = "command"
	SourceAuto    = "auto"
)

// Earning — одно зафиксированное поступление дохода.
// Записи неизменяемы: создаются на каждое событие и больше не обновляются.
type Earning struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	UserID      *string         `json:"userId"` // nil для системных начислений
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// InsertEarning — insert-схема Earning: без id и timestamp.
type InsertEarning struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required,money"`
	Source      string           `json:"source" validate:"required"`
	UserID      *string          `json:"userId,omitempty"`
	Description string           `json:"description" validate:"required"`
}

// Table возвращает таблицу earnings.
func (InsertEarning) Table() Table { return EarningsTable }

// Values возвращает параметры INSERT в порядке EarningsTable.InsertColumns().
func (in InsertEarning) Values() []any {
	return []any{moneyArg(in.Amount), in.Source, in.UserID, in.Description}
}

// ScanEarning читает строку, выбранную через EarningsTable.SelectList().
func ScanEarning(row Row) (*Earning, error) {
	var e Earning
	var amount string
	if err := row.Scan(&e.ID, &amount, &e.Source, &e.UserID, &e.Description, &e.Timestamp); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	e.Amount = d
	return &e, nil
}
