package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func asValidation(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ожидалась *ValidationError, получено %v", err)
	}
	return verr
}

func TestValidateAcceptsCompleteInserts(t *testing.T) {
	inserts := []Insertable{
		InsertEarning{Amount: Money(MustMoney("12.50")), Source: SourceTip, Description: "tip from user123"},
		InsertBotActivity{Type: ActivityUserJoin, UserID: Text("42")},
		InsertBotStats{},
		InsertIncomeConfig{SourceName: "tips", MinRate: Money(MustMoney("1.00")), MaxRate: Money(MustMoney("5.00"))},
	}
	for _, in := range inserts {
		if err := Validate(in); err != nil {
			t.Errorf("%s: %v", in.Table().Name, err)
		}
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		in    Insertable
		field string
	}{
		{"earning amount", InsertEarning{Source: "tip", Description: "x"}, "amount"},
		{"earning source", InsertEarning{Amount: Money(MustMoney("1")), Description: "x"}, "source"},
		{"earning description", InsertEarning{Amount: Money(MustMoney("1")), Source: "tip"}, "description"},
		{"activity type", InsertBotActivity{Command: Text("stats")}, "type"},
		{"config sourceName", InsertIncomeConfig{MinRate: Money(MustMoney("1")), MaxRate: Money(MustMoney("2"))}, "sourceName"},
		{"config minRate", InsertIncomeConfig{SourceName: "tips", MaxRate: Money(MustMoney("2"))}, "minRate"},
		{"config maxRate", InsertIncomeConfig{SourceName: "tips", MinRate: Money(MustMoney("1"))}, "maxRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := asValidation(t, Validate(tt.in))
			fe, ok := verr.Field(tt.field)
			if !ok {
				t.Fatalf("нет ошибки для %s: %v", tt.field, verr)
			}
			if fe.Rule != RuleRequired {
				t.Fatalf("rule = %s, want required", fe.Rule)
			}
		})
	}
}

func TestValidateRejectsImpreciseMoney(t *testing.T) {
	tooPrecise := decimal.RequireFromString("1.001")
	verr := asValidation(t, Validate(InsertEarning{Amount: &tooPrecise, Source: "tip", Description: "x"}))
	if fe, ok := verr.Field("amount"); !ok || fe.Rule != RuleDecimal {
		t.Fatalf("amount: %+v", verr.Fields)
	}

	huge := MustMoney("99999999.99").Add(MustMoney("0.01"))
	verr = asValidation(t, Validate(InsertIncomeConfig{SourceName: "tips", MinRate: Money(MustMoney("1")), MaxRate: &huge}))
	if !verr.Has("maxRate") || verr.Has("minRate") {
		t.Fatalf("fields: %+v", verr.Fields)
	}
}

func TestDecodeEarning(t *testing.T) {
	in, err := Decode[InsertEarning]([]byte(`{"amount":"12.50","source":"tip","description":"tip from user123","id":7,"timestamp":"2020-01-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if FormatMoney(*in.Amount) != "12.50" || in.Source != "tip" || in.UserID != nil {
		t.Fatalf("decoded %+v", in)
	}
}

func TestDecodeMissingAmount(t *testing.T) {
	_, err := Decode[InsertEarning]([]byte(`{"source":"tip","description":"x"}`))
	verr := asValidation(t, err)
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "amount" || verr.Fields[0].Rule != RuleRequired {
		t.Fatalf("fields: %+v", verr.Fields)
	}
	if verr.Entity != "earnings" {
		t.Fatalf("entity = %s", verr.Entity)
	}
}

func TestDecodeTypeErrors(t *testing.T) {
	_, err := Decode[InsertBotStats]([]byte(`{"isOnline":"yes","uptime":12,"totalUsers":"many"}`))
	verr := asValidation(t, err)
	for _, field := range []string{"isOnline", "totalUsers"} {
		fe, ok := verr.Field(field)
		if !ok || fe.Rule != RuleType {
			t.Errorf("%s: %+v", field, verr.Fields)
		}
	}
	if verr.Has("uptime") {
		t.Errorf("uptime корректен: %+v", verr.Fields)
	}

	_, err = Decode[InsertEarning]([]byte(`{"amount":"abc","source":"tip","description":"x"}`))
	if fe, ok := asValidation(t, err).Field("amount"); !ok || fe.Rule != RuleType {
		t.Errorf("amount: %v", err)
	}

	_, err = Decode[InsertEarning]([]byte(`{"amount":"1.005","source":"tip","description":"x"}`))
	if fe, ok := asValidation(t, err).Field("amount"); !ok || fe.Rule != RuleDecimal {
		t.Errorf("amount: %v", err)
	}

	_, err = Decode[InsertEarning]([]byte(`[1,2]`))
	asValidation(t, err)
}

func TestDecodeHugeExponent(t *testing.T) {
	for _, amount := range []string{`"1e999999999"`, `"1e-999999999"`, `1e999999999`} {
		start := time.Now()
		_, err := Decode[InsertEarning]([]byte(`{"amount":` + amount + `,"source":"tip","description":"x"}`))
		if fe, ok := asValidation(t, err).Field("amount"); !ok || fe.Rule != RuleDecimal {
			t.Errorf("amount %s: %v", amount, err)
		}
		if d := time.Since(start); d > time.Second {
			t.Errorf("amount %s: Decode занял %v", amount, d)
		}
	}

	huge := decimal.New(1, 999999999)
	err := Validate(InsertIncomeConfig{SourceName: "tips", MinRate: Money(decimal.Zero), MaxRate: &huge})
	if fe, ok := asValidation(t, err).Field("maxRate"); !ok || fe.Rule != RuleDecimal {
		t.Errorf("maxRate: %v", err)
	}
}

func TestDecodeDefaults(t *testing.T) {
	stats, err := Decode[InsertBotStats]([]byte(`{}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	d := stats.WithDefaults()
	if !*d.IsOnline || *d.Uptime != 0 || *d.TotalUsers != 0 || *d.TotalGuilds != 0 {
		t.Fatalf("defaults: %+v", d)
	}

	cfg, err := Decode[InsertIncomeConfig]([]byte(`{"sourceName":"tips","minRate":"1.00","maxRate":"5.00"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !*cfg.WithDefaults().Enabled {
		t.Fatal("enabled должен быть true по умолчанию")
	}
	if got := cfg.Values()[1]; got != true {
		t.Fatalf("Values()[1] = %v", got)
	}
}

func TestCheckRange(t *testing.T) {
	in := InsertIncomeConfig{SourceName: "tips", MinRate: Money(MustMoney("5")), MaxRate: Money(MustMoney("1"))}
	if err := Validate(in); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	verr := asValidation(t, in.CheckRange())
	if fe, _ := verr.Field("maxRate"); fe.Rule != RuleRange {
		t.Fatalf("fields: %+v", verr.Fields)
	}

	in.MaxRate = Money(MustMoney("5"))
	if err := in.CheckRange(); err != nil {
		t.Fatalf("равные границы допустимы: %v", err)
	}
}
