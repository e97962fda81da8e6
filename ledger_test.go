package reserve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLedger_Validate(t *testing.T) {
	ledger := NewLedger()
	ledger.Reject(Rejection{Kind: RejectRecord, Index: 3, Reason: "bad line"})
	ledger.Declare(Currency{Code: "usd", Name: "Dollar"}, Currency{Code: "dollar"})

	noRate := buy("2025-01-02", "USD", 10, 0)
	noRate.Amount = Money{}
	noDate := buy("2025-01-02", "USD", 10, 110)
	noDate.Date = Date{}
	swap := buy("2025-01-02", "USD", 10, 110)
	swap.Type = "Swap"
	lower := sell("2025-01-03", " usd ", 5, 111)
	lower.Type = "sell"

	ledger.Append(
		buy("2025-01-01", "USD", 100, 110), // 0 valid
		buy("2025-01-01", "BDT", 100, 1),   // 1 settlement currency
		buy("2025-01-01", "USDT", 100, 1),  // 2 not ISO
		buy("2025-01-01", "EUR", 0, 130),   // 3 zero quantity
		noRate,                             // 4
		noDate,                             // 5
		swap,                               // 6
		lower,                              // 7 valid once normalized
		buy("2025-01-01", "", 1, 1),        // 8 missing code
	)
	ledger.Adjust(
		NewAdjustment(MustParse("2025-01-04"), "", "usd", Q(-1), ""),
		NewAdjustment(MustParse("2025-01-04"), "z", "USD", Q(0), ""),
	)

	valid, rejections := ledger.Validate()

	type key struct {
		Kind  RejectionKind
		Index int
	}
	var got []key
	for _, r := range rejections {
		got = append(got, key{r.Kind, r.Index})
	}
	want := []key{
		{RejectRecord, 3},
		{RejectCurrency, 0},
		{RejectTransaction, 1},
		{RejectTransaction, 2},
		{RejectTransaction, 3},
		{RejectTransaction, 4},
		{RejectTransaction, 5},
		{RejectTransaction, 6},
		{RejectTransaction, 8},
		{RejectAdjustment, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Validate() rejections mismatch (-want +got):\n%s", diff)
	}

	if got := valid.Len(); got != 2 {
		t.Fatalf("Validate() kept %d transactions, want 2", got)
	}
	if tx := valid.transactions[1]; tx.Currency != "USD" || tx.Type != Sell {
		t.Errorf("Validate() did not normalize %+v", tx)
	}
	if a := valid.adjustments[0]; a.Currency != "USD" {
		t.Errorf("Validate() did not normalize adjustment currency %q", a.Currency)
	}
	if got := valid.CurrencyName("USD"); got != "Dollar" {
		t.Errorf("CurrencyName(USD) = %q, want %q", got, "Dollar")
	}
	if ledger.Len() != 9 || len(ledger.adjustments) != 2 {
		t.Errorf("Validate() modified its ledger")
	}
	if diff := cmp.Diff(rejections, ledger.Rejections()); diff != "" {
		t.Errorf("Rejections() mismatch (-Validate +Rejections):\n%s", diff)
	}
}

func TestLedger_Merge(t *testing.T) {
	a := NewLedger()
	a.Append(buy("2025-01-01", "USD", 100, 110))
	a.Reject(Rejection{Kind: RejectRecord, Index: 1, Reason: "a"})

	b := NewLedger()
	b.Declare(Currency{Code: "EUR", Name: "Euro zone"})
	b.Append(sell("2025-01-02", "USD", 10, 111), buy("2025-01-02", "EUR", 5, 130))
	b.Adjust(NewAdjustment(MustParse("2025-01-03"), "", "USD", Q(1), ""))
	b.Reject(Rejection{Kind: RejectRecord, Index: 2, Reason: "b"})

	a.Merge(b)
	if got := a.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := len(a.adjustments); got != 1 {
		t.Errorf("merged %d adjustments, want 1", got)
	}
	if got := len(a.rejected); got != 2 {
		t.Errorf("merged %d rejections, want 2", got)
	}
	if got := a.CurrencyName("EUR"); got != "Euro zone" {
		t.Errorf("CurrencyName(EUR) = %q, want %q", got, "Euro zone")
	}
}

func TestLedger_CurrencyName(t *testing.T) {
	ledger := NewLedger()
	ledger.Declare(Currency{Code: "SAR", Name: "Riyal"}, Currency{Code: "MYR"})
	tests := []struct {
		code, want string
	}{
		{"SAR", "Riyal"},
		{"MYR", "Malaysian Ringgit"},
		{"USD", "US Dollar"},
		{"NOK", "NOK"},
	}
	for _, tt := range tests {
		if got := ledger.CurrencyName(tt.code); got != tt.want {
			t.Errorf("CurrencyName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLedger_Transactions(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		buy("2025-01-01", "USD", 100, 110),
		buy("2025-01-01", "EUR", 100, 130),
		sell("2025-01-02", "USD", 10, 111),
	)
	var got []int
	for i := range ledger.Transactions(func(tx CurrencyTransaction) bool { return tx.Currency == "USD" }) {
		got = append(got, i)
	}
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Errorf("Transactions() mismatch (-want +got):\n%s", diff)
	}
}
