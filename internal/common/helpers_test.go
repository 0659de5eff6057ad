package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"serotonyl.ru/income-bot/internal/schema"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.5", "+12.50 ₽"},
		{"0", "+0.00 ₽"},
		{"-3", "-3.00 ₽"},
	}
	for _, tt := range tests {
		if got := FormatSignedAmount(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatSignedAmount(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   int32
		want string
	}{
		{0, "0м"},
		{59, "0м"},
		{3*3600 + 4*60, "3ч 4м"},
		{2*86400 + 3*3600 + 4*60, "2д 3ч 4м"},
	}
	for _, tt := range tests {
		if got := FormatUptime(tt.in); got != tt.want {
			t.Errorf("FormatUptime(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 21, 30, 0, 0, time.UTC)
	msk := time.FixedZone("MSK", 3*60*60)
	if got := FormatDateTime(ts, msk); got != "02.03.2024 00:30" {
		t.Fatalf("FormatDateTime = %s", got)
	}
}

func TestFormatError(t *testing.T) {
	verr := &schema.ValidationError{Entity: "earnings", Fields: []schema.FieldError{
		{Field: "amount", Rule: schema.RuleRequired, Message: "обязательное поле"},
	}}
	if got := FormatError(verr); got != "❌ Проверьте данные:\n• amount: обязательное поле" {
		t.Fatalf("FormatError = %q", got)
	}
	if got := FormatError(ErrSourceDisabled); got != "❌ источник дохода выключен" {
		t.Fatalf("FormatError = %q", got)
	}
}
