package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseTransactionType(t *testing.T) {
	for _, raw := range []string{"PAYMENT", "INCOME"} {
		typ, err := ParseTransactionType(raw)
		if err != nil {
			t.Fatalf("ParseTransactionType(%q) err=%v", raw, err)
		}
		if string(typ) != raw || !typ.Valid() {
			t.Fatalf("ParseTransactionType(%q)=%q", raw, typ)
		}
	}
	// Raw input outside the closed set fails at the boundary
	for _, raw := range []string{"", "payment", "TRANSFER"} {
		if _, err := ParseTransactionType(raw); err == nil {
			t.Fatalf("ParseTransactionType(%q) should fail", raw)
		}
	}
}

func TestTransactionTypeEffect(t *testing.T) {
	amount := decimal.NewFromInt(550)
	if got := Payment.Effect(amount); !got.Equal(amount.Neg()) {
		t.Fatalf("payment effect=%s want=-550", got)
	}
	if got := Income.Effect(amount); !got.Equal(amount) {
		t.Fatalf("income effect=%s want=550", got)
	}
}

func TestParseCurrency(t *testing.T) {
	for _, raw := range []string{"ARS", "USD"} {
		cur, err := ParseCurrency(raw)
		if err != nil {
			t.Fatalf("ParseCurrency(%q) err=%v", raw, err)
		}
		if string(cur) != raw {
			t.Fatalf("ParseCurrency(%q)=%q", raw, cur)
		}
	}
	if _, err := ParseCurrency("EUR"); err == nil {
		t.Fatal("ParseCurrency(EUR) should fail")
	}
}

func TestDefaultTransactionLimit(t *testing.T) {
	if got := DefaultTransactionLimit(ARS); !got.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("ARS limit=%s want=300000", got)
	}
	if got := DefaultTransactionLimit(USD); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("USD limit=%s want=1000", got)
	}
}
