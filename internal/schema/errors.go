package schema

import (
	"fmt"
	"strings"
)

// Правила, которые может нарушить поле insert-схемы.
const (
	RuleRequired = "required" // Обязательное поле отсутствует
	RuleType     = "type"     // Значение не того типа
	RuleDecimal  = "decimal"  // Сумма не помещается в NUMERIC(10, 2)
	RuleRange    = "range"    // minRate больше maxRate
)

// FieldError — нарушение одного поля.
type FieldError struct {
	Field   string `json:"field"`   // Имя поля в wire-формате (amount, userId, ...)
	Rule    string `json:"rule"`    // required | type | decimal | ...
	Message string `json:"message"` // Описание для человека
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ValidationError — отказ insert-схемы. Перечисляет все плохие поля сразу.
type ValidationError struct {
	Entity string       // earnings, bot_activity, ...
	Fields []FieldError // Нарушения по полям
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s: ошибка валидации: %s", e.Entity, strings.Join(parts, "; "))
}

// Has сообщает, есть ли нарушение указанного поля.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Field(field)
	return ok
}

// Field возвращает нарушение по имени поля.
func (e *ValidationError) Field(field string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}
