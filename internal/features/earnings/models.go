// Package earnings учитывает поступления дохода (таблица earnings).
// models.go описывает агрегаты для сводок.
package earnings

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceTotal — сумма и число поступлений по одному источнику.
type SourceTotal struct {
	Source string          `json:"source"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// Summary — сводка доходов за период.
type Summary struct {
	Since    time.Time       `json:"since"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
	BySource []SourceTotal   `json:"bySource"`
}
