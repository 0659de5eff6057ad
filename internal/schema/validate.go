package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Row — то, что умеет pgx.Row / pgx.Rows.
type Row interface {
	Scan(dest ...any) error
}

// Insertable — общая часть всех insert-схем.
type Insertable interface {
	Table() Table
	Values() []any
}

// Insert — множество insert-схем, которые умеет Decode.
type Insert interface {
	InsertEarning | InsertBotActivity | InsertBotStats | InsertIncomeConfig
	Insertable
}

// outOfBounds — строковое значение суммы, которая заведомо не помещается в NUMERIC(10, 2).
const outOfBounds = "out-of-bounds"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance лениво собирает валидатор:
// имена полей берутся из json-тегов, decimal проверяется как строка, правило money — NUMERIC(10, 2).
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(jsonName)
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			d, ok := field.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			// String() раскрывает экспоненту целиком, поэтому сначала границы
			if !inMoneyBounds(d) {
				return outOfBounds
			}
			return d.String()
		}, decimal.Decimal{})
		if err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && CheckMoney(d) == nil
		}); err != nil {
			panic(fmt.Sprintf("schema: регистрация правила money: %v", err))
		}
		validate = v
	})
	return validate
}

// Validate проверяет insert-схему.
// Возвращает *ValidationError со всеми нарушениями или nil.
func Validate(in Insertable) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%s: валидатор: %w", in.Table().Name, err)
	}

	out := &ValidationError{Entity: in.Table().Name}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, toFieldError(fe))
	}
	return out
}

func toFieldError(fe validator.FieldError) FieldError {
	switch fe.Tag() {
	case "required":
		return FieldError{Field: fe.Field(), Rule: RuleRequired, Message: "обязательное поле"}
	case "money":
		return FieldError{
			Field:   fe.Field(),
			Rule:    RuleDecimal,
			Message: fmt.Sprintf("сумма должна помещаться в NUMERIC(%d, %d)", MoneyPrecision, MoneyScale),
		}
	default:
		return FieldError{Field: fe.Field(), Rule: fe.Tag(), Message: fe.Error()}
	}
}

// Decode разбирает JSON-объект в insert-схему и валидирует её.
// Каждое поле декодируется отдельно, поэтому ошибка типа указывает на конкретное поле.
// Неизвестные ключи (в том числе id и timestamp) отбрасываются.
//
// Пример:
//
//	in, err := schema.Decode[schema.InsertEarning](body)
//	var verr *schema.ValidationError
//	if errors.As(err, &verr) {
//	    // verr.Fields — список плохих полей
//	}
func Decode[T Insert](data []byte) (T, error) {
	var out T

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return out, &ValidationError{
			Entity: out.Table().Name,
			Fields: []FieldError{{Field: "", Rule: RuleType, Message: "ожидается JSON-объект"}},
		}
	}

	rv := reflect.ValueOf(&out).Elem()
	rt := rv.Type()
	verr := &ValidationError{Entity: out.Table().Name}
	for i := 0; i < rt.NumField(); i++ {
		name := jsonName(rt.Field(i))
		msg, ok := raw[name]
		if name == "" || !ok {
			continue
		}
		if err := json.Unmarshal(msg, rv.Field(i).Addr().Interface()); err != nil {
			verr.Fields = append(verr.Fields, FieldError{
				Field:   name,
				Rule:    RuleType,
				Message: fmt.Sprintf("ожидается %s", typeName(rt.Field(i).Type)),
			})
		}
	}
	if len(verr.Fields) > 0 {
		return out, verr
	}

	if err := Validate(out); err != nil {
		return out, err
	}
	return out, nil
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == reflect.TypeOf(decimal.Decimal{}) {
		return "десятичное число"
	}
	switch t.Kind() {
	case reflect.String:
		return "строка"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "целое число"
	}
	return t.String()
}

// moneyArg передаёт сумму в БД строкой (см. placeholder).
func moneyArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// Bool возвращает указатель на b.
func Bool(b bool) *bool { return &b }

// Int32 возвращает указатель на n.
func Int32(n int32) *int32 { return &n }

// Text возвращает указатель на s или nil для пустой строки.
func Text(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Money возвращает указатель на d.
func Money(d decimal.Decimal) *decimal.Decimal { return &d }
