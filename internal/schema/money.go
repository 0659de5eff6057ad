package schema

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Денежные колонки: NUMERIC(10, 2) — 10 значащих цифр, из них 2 после запятой.
const (
	MoneyPrecision = 10
	MoneyScale     = 2
)

var moneySQLType = fmt.Sprintf("NUMERIC(%d, %d)", MoneyPrecision, MoneyScale)

// moneyLimit — первое значение, которое уже не помещается: 10^(precision-scale).
var moneyLimit = decimal.New(1, MoneyPrecision-MoneyScale)

// minMoneyExponent — самая мелкая допустимая степень: "12.500…0" длиннее 18 знаков
// после запятой отклоняется без вычислений.
const minMoneyExponent = -18

// maxQuotedInput — сколько символов ввода цитируется в ошибке.
const maxQuotedInput = 32

// CheckMoney проверяет, что значение точно представимо в NUMERIC(10, 2).
//
// Правила:
//   - не больше 2 значащих знаков после запятой ("12.500" допустимо, "12.345" — нет)
//   - модуль меньше 10^8 (не больше 8 цифр в целой части)
//
// Порядок и число цифр проверяются до любой арифметики: Round и Cmp строят 10^|exp|,
// и для "1e999999999" это минуты работы.
func CheckMoney(d decimal.Decimal) error {
	if !inMoneyBounds(d) {
		return fmt.Errorf("больше %d значащих цифр или %d знаков после запятой", MoneyPrecision, MoneyScale)
	}
	if !d.Equal(d.Round(MoneyScale)) {
		return fmt.Errorf("больше %d знаков после запятой", MoneyScale)
	}
	if d.Abs().GreaterThanOrEqual(moneyLimit) {
		return fmt.Errorf("больше %d значащих цифр", MoneyPrecision)
	}
	return nil
}

// inMoneyBounds — дешёвая проверка по коэффициенту и экспоненте.
func inMoneyBounds(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < minMoneyExponent {
		return false
	}
	if d.IsZero() {
		return exp <= MoneyPrecision-MoneyScale
	}
	return int64(d.NumDigits())+exp <= MoneyPrecision-MoneyScale
}

// ParseMoney разбирает строку вида "12.50" и проверяет точность.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("некорректная сумма %q", quoteInput(s))
	}
	if err := CheckMoney(d); err != nil {
		return decimal.Decimal{}, fmt.Errorf("сумма %q: %w", quoteInput(s), err)
	}
	return d, nil
}

// quoteInput обрезает пользовательский ввод для текста ошибки.
func quoteInput(s string) string {
	r := []rune(s)
	if len(r) <= maxQuotedInput {
		return s
	}
	return string(r[:maxQuotedInput]) + "…"
}

// MustMoney — ParseMoney для констант и тестов. Паникует на ошибке.
func MustMoney(s string) decimal.Decimal {
	d, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FormatMoney выводит сумму ровно с двумя знаками: 12.5 → "12.50".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
