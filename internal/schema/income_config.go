package schema

import "github.com/shopspring/decimal"

// IncomeConfig — настройки одного источника дохода.
// Ожидается minRate <= maxRate; insert-схема это не проверяет (см. CheckRange).
type IncomeConfig struct {
	ID         int64           `json:"id"`
	SourceName string          `json:"sourceName"` // 'tips', 'commands', 'auto'
	Enabled    bool            `json:"enabled"`
	MinRate    decimal.Decimal `json:"minRate"`
	MaxRate    decimal.Decimal `json:"maxRate"`
}

// InsertIncomeConfig — insert-схема IncomeConfig: без id. enabled по умолчанию true.
type InsertIncomeConfig struct {
	SourceName string           `json:"sourceName" validate:"required"`
	Enabled    *bool            `json:"enabled,omitempty"`
	MinRate    *decimal.Decimal `json:"minRate" validate:"required,money"`
	MaxRate    *decimal.Decimal `json:"maxRate" validate:"required,money"`
}

// WithDefaults возвращает копию с enabled = true, если оно не задано.
func (in InsertIncomeConfig) WithDefaults() InsertIncomeConfig {
	if in.Enabled == nil {
		in.Enabled = Bool(true)
	}
	return in
}

// CheckRange проверяет minRate <= maxRate. Вызывать после Validate.
func (in InsertIncomeConfig) CheckRange() error {
	if in.MinRate == nil || in.MaxRate == nil {
		return nil
	}
	if in.MinRate.GreaterThan(*in.MaxRate) {
		return &ValidationError{
			Entity: IncomeConfigTable.Name,
			Fields: []FieldError{{
				Field:   "maxRate",
				Rule:    RuleRange,
				Message: "maxRate меньше minRate",
			}},
		}
	}
	return nil
}

// Table возвращает таблицу income_config.
func (InsertIncomeConfig) Table() Table { return IncomeConfigTable }

// Values возвращает параметры INSERT в порядке IncomeConfigTable.InsertColumns().
func (in InsertIncomeConfig) Values() []any {
	d := in.WithDefaults()
	return []any{d.SourceName, *d.Enabled, moneyArg(d.MinRate), moneyArg(d.MaxRate)}
}

// ScanIncomeConfig читает строку, выбранную через IncomeConfigTable.SelectList().
func ScanIncomeConfig(row Row) (*IncomeConfig, error) {
	var c IncomeConfig
	var minRate, maxRate string
	if err := row.Scan(&c.ID, &c.SourceName, &c.Enabled, &minRate, &maxRate); err != nil {
		return nil, err
	}
	var err error
	if c.MinRate, err = decimal.NewFromString(minRate); err != nil {
		return nil, err
	}
	if c.MaxRate, err = decimal.NewFromString(maxRate); err != nil {
		return nil, err
	}
	return &c, nil
}
