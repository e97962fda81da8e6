package reserve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// cmpOpts compares the value types of the package by value.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b Date) bool { return a == b }),
}

// buy is a helper for tests to create a Buy transaction from consts.
func buy(on, currency string, quantity, rate float64) CurrencyTransaction {
	return NewBuy(MustParse(on), "", currency, Q(quantity), BDT(rate))
}

// sell is a helper for tests to create a Sell transaction from consts.
func sell(on, currency string, quantity, rate float64) CurrencyTransaction {
	return NewSell(MustParse(on), "", currency, Q(quantity), BDT(rate))
}

// checkMoney fails the test if got, rounded to places, is not want.
func checkMoney(t *testing.T, what string, got Money, want string, places int32) {
	t.Helper()
	if !got.Amount().Round(places).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", what, got.Amount(), want)
	}
}

// checkQuantity fails the test if got is not want.
func checkQuantity(t *testing.T, what string, got Quantity, want float64) {
	t.Helper()
	if !got.Equal(Q(want)) {
		t.Errorf("%s = %s, want %v", what, got, want)
	}
}
