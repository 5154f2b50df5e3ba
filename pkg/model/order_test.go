package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderValidate(t *testing.T) {
	cases := []struct {
		name string
		o    *Order
		ok   bool
	}{
		{
			"valid limit buy",
			&Order{ID: "o1", Symbol: "OPTI", Side: BUY, Type: LIMIT, Price: decimal.RequireFromString("1.05"), Quantity: 100},
			true,
		},
		{
			"valid market sell without price",
			&Order{ID: "o2", Symbol: "OPTI", Side: SELL, Type: MARKET, Quantity: 5},
			true,
		},
		{
			"zero price limit is allowed",
			&Order{ID: "o3", Symbol: "OPTI", Side: BUY, Type: LIMIT, Quantity: 1},
			true,
		},
		{
			"missing symbol",
			&Order{ID: "o4", Side: BUY, Type: LIMIT, Price: decimal.RequireFromString("1.00"), Quantity: 1},
			false,
		},
		{
			"invalid side",
			&Order{ID: "o5", Symbol: "OPTI", Side: "BLAH", Type: LIMIT, Price: decimal.RequireFromString("1.00"), Quantity: 1},
			false,
		},
		{
			"invalid type",
			&Order{ID: "o6", Symbol: "OPTI", Side: BUY, Type: "FLOP", Price: decimal.RequireFromString("1.00"), Quantity: 1},
			false,
		},
		{
			"zero quantity",
			&Order{ID: "o7", Symbol: "OPTI", Side: BUY, Type: LIMIT, Price: decimal.RequireFromString("1.00"), Quantity: 0},
			false,
		},
		{
			"negative quantity",
			&Order{ID: "o8", Symbol: "OPTI", Side: SELL, Type: LIMIT, Price: decimal.RequireFromString("1.00"), Quantity: -3},
			false,
		},
		{
			"negative price",
			&Order{ID: "o9", Symbol: "OPTI", Side: SELL, Type: LIMIT, Price: decimal.RequireFromString("-0.01"), Quantity: 2},
			false,
		},
		{
			"filled beyond quantity",
			&Order{ID: "o10", Symbol: "OPTI", Side: BUY, Type: LIMIT, Price: decimal.RequireFromString("1.00"), Quantity: 2, Filled: 3},
			false,
		},
	}

	for _, c := range cases {
		err := c.o.Validate()
		if c.ok && err != nil {
			t.Fatalf("case %q: expected valid but got error: %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("case %q: expected error but got nil", c.name)
		}
		if !c.ok {
			if _, isInvalid := err.(*InvalidOrderError); !isInvalid {
				t.Fatalf("case %q: expected *InvalidOrderError, got %T", c.name, err)
			}
		}
	}
}

func TestRemainingAndTerminal(t *testing.T) {
	o := &Order{ID: "r1", Symbol: "OPTI", Side: BUY, Type: LIMIT, Price: decimal.RequireFromString("1.10"), Quantity: 10, Status: ACTIVE}
	if o.Remaining() != 10 {
		t.Fatalf("expected remaining 10, got %d", o.Remaining())
	}
	o.Filled = 4
	if o.Remaining() != 6 {
		t.Fatalf("expected remaining 6, got %d", o.Remaining())
	}
	if o.Terminal() {
		t.Fatal("ACTIVE order must not be terminal")
	}
	o.Status = FILLED
	if !o.Terminal() {
		t.Fatal("FILLED order must be terminal")
	}
	o.Status = CANCELLED
	if !o.Terminal() {
		t.Fatal("CANCELLED order must be terminal")
	}
}
