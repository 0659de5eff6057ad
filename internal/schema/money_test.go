package schema

import (
	"strings"
	"testing"
	"time"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"12.50", true},
		{"0", true},
		{"12.500", true},
		{"-3.10", true},
		{"99999999.99", true},
		{"12.345", false},
		{"0.001", false},
		{"100000000.00", false},
		{"1234567890", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		_, err := ParseMoney(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseMoney(%q): err = %v, want ok = %v", tt.in, err, tt.ok)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(MustMoney("12.5")); got != "12.50" {
		t.Fatalf("FormatMoney = %s", got)
	}
}

func TestParseMoneyHugeExponent(t *testing.T) {
	for _, in := range []string{"1e999999999", "1e-999999999", "-1e999999999", "12.5e-30", "0.1e9"} {
		start := time.Now()
		_, err := ParseMoney(in)
		if err == nil {
			t.Errorf("ParseMoney(%q) принят", in)
			continue
		}
		if len(err.Error()) > 200 {
			t.Errorf("ParseMoney(%q): слишком длинная ошибка (%d байт)", in, len(err.Error()))
		}
		if d := time.Since(start); d > time.Second {
			t.Errorf("ParseMoney(%q) занял %v", in, d)
		}
	}

	// Экспонента в пределах точности по-прежнему допустима
	for _, in := range []string{"1.25e2", "0e3", "12.500"} {
		if _, err := ParseMoney(in); err != nil {
			t.Errorf("ParseMoney(%q): %v", in, err)
		}
	}
}

func TestParseMoneyQuotesShortInput(t *testing.T) {
	_, err := ParseMoney(strings.Repeat("9", 500))
	if err == nil {
		t.Fatal("500 цифр приняты")
	}
	if !strings.Contains(err.Error(), "…") || len(err.Error()) > 200 {
		t.Fatalf("ошибка: %s", err)
	}
}
