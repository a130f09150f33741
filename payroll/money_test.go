package payroll_test

import (
	"encoding/json"
	"testing"

	"github.com/saurellius/finalpay-engine/payroll"
)

func TestMoney_NoFloatDrift(t *testing.T) {
	// The classic float trap: 0.1 + 0.2
	sum := payroll.MustParseMoney("0.1").Add(payroll.MustParseMoney("0.2"))
	if sum.String() != "0.30" {
		t.Errorf("0.1 + 0.2 = %s", sum.String())
	}

	// 2300 * 0.0765 must land on exact cents
	fica := payroll.MustParseMoney("2300").MulRate(payroll.MustParseDecimal("0.0765"))
	if fica.Round2().String() != "175.95" {
		t.Errorf("FICA on 2300 = %s", fica.Round2().String())
	}
}

func TestMoney_Cents(t *testing.T) {
	if got := payroll.MustParseMoney("1503.05").Cents(); got != 150305 {
		t.Errorf("Cents() = %d", got)
	}
	if got := payroll.NewMoneyFromCents(150305); got.String() != "1503.05" {
		t.Errorf("NewMoneyFromCents = %s", got.String())
	}
}

func TestMoney_JSONEncoding(t *testing.T) {
	// Always emitted as a 2-decimal string
	b, err := json.Marshal(payroll.MustParseMoney("2300"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2300.00"` {
		t.Errorf("marshal = %s", b)
	}

	// Accepts strings, bare numbers, and null
	for input, want := range map[string]string{
		`"1503.05"`: "1503.05",
		`25`:        "25.00",
		`25.5`:      "25.50",
		`null`:      "0.00",
	} {
		var m payroll.Money
		if err := json.Unmarshal([]byte(input), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		if m.String() != want {
			t.Errorf("unmarshal %s = %s, want %s", input, m.String(), want)
		}
	}

	var m payroll.Money
	if err := json.Unmarshal([]byte(`"not-money"`), &m); err == nil {
		t.Error("unmarshal accepted garbage")
	}
}

func TestParseMoney_Errors(t *testing.T) {
	if _, err := payroll.ParseMoney("12,50"); err == nil {
		t.Error("ParseMoney accepted a comma decimal")
	}
	if m, err := payroll.ParseMoney("-42.10"); err != nil || !m.IsNegative() {
		t.Errorf("ParseMoney rejected a negative amount: %v", err)
	}
}
