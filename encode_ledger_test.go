package reserve

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeLedger(t *testing.T) {
	jsonlStream := `{"command":"currency","code":"usd","name":"Greenback"}
{"id":"t1","currencyCode":"USD","type":"Buy","quantity":1000,"exchangeRate":110,"date":"2025-01-02"}
{"command":"transaction","id":"t2","currencyCode":"USD","type":"Sell","quantity":"200","exchangeRate":"118.5","amountBDT":23700,"date":"2025-01-03","createdAt":"2025-01-03T10:00:00Z","isActive":false}

{"command":"adjust","currencyCode":"USD","quantity":-5,"date":"2025-01-04","memo":"count"}
not json
{"command":"dividend"}
{"currencyCode":"USD","type":"Buy","quantity":"abc","date":"2025-01-05"}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}

	if got, want := ledger.Len(), 2; got != want {
		t.Fatalf("DecodeLedger() decoded %d transactions, want %d", got, want)
	}
	if got := ledger.CurrencyName("USD"); got != "Greenback" {
		t.Errorf("CurrencyName(USD) = %q, want %q", got, "Greenback")
	}

	first, second := ledger.transactions[0], ledger.transactions[1]
	if first.ID != "t1" || first.Type != Buy || !first.Active {
		t.Errorf("first transaction = %+v, want an active Buy t1", first)
	}
	checkMoney(t, "first amount", first.Amount, "0", 2)
	checkMoney(t, "first settlement", first.Settlement(), "110000", 2)
	if second.Active {
		t.Errorf("second transaction is active, want inactive")
	}
	checkQuantity(t, "second quantity", second.Quantity, 200)
	checkMoney(t, "second rate", second.Rate, "118.5", 4)
	if want := time.Date(2025, time.January, 3, 10, 0, 0, 0, time.UTC); !second.CreatedAt.Equal(want) {
		t.Errorf("second createdAt = %v, want %v", second.CreatedAt, want)
	}

	if got := len(ledger.adjustments); got != 1 {
		t.Fatalf("decoded %d adjustments, want 1", got)
	}
	checkQuantity(t, "adjustment", ledger.adjustments[0].Quantity, -5)

	var lines []int
	for _, r := range ledger.rejected {
		if r.Kind != RejectRecord {
			t.Errorf("rejection kind = %q, want %q", r.Kind, RejectRecord)
		}
		lines = append(lines, r.Index)
	}
	if diff := cmp.Diff([]int{6, 7, 8}, lines); diff != "" {
		t.Errorf("rejected lines mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLedger_LineTooLong(t *testing.T) {
	long := `{"memo":"` + strings.Repeat("x", maxLineSize) + `"}`
	if _, err := DecodeLedger(strings.NewReader(long)); err == nil {
		t.Errorf("DecodeLedger() on an oversized line returned no error")
	}
}

func TestEncodeLedger(t *testing.T) {
	ledger := NewLedger()
	ledger.Declare(Currency{Code: "USD", Name: "US Dollar"}, Currency{Code: "EUR"})
	tx := buy("2025-08-03", "USD", 1000, 110.25)
	tx.ID = "a1"
	tx.CreatedAt = time.Date(2025, time.August, 3, 9, 30, 0, 0, time.UTC)
	tx.Memo = "walk-in"
	cancelled := sell("2025-08-01", "EUR", 50, 131)
	cancelled.Active = false
	ledger.Append(tx, cancelled)
	ledger.Adjust(NewAdjustment(MustParse("2025-08-04"), "adj-1", "USD", Q(-2.5), "recount"))

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() failed: %v", err)
	}

	want := `{"command":"currency","code":"EUR"}
{"command":"currency","code":"USD","name":"US Dollar"}
{"command":"transaction","id":"a1","currencyCode":"USD","type":"Buy","quantity":1000,"exchangeRate":110.25,"amountBDT":110250,"date":"2025-08-03","createdAt":"2025-08-03T09:30:00Z","isActive":true,"memo":"walk-in"}
{"command":"transaction","currencyCode":"EUR","type":"Sell","quantity":50,"exchangeRate":131,"amountBDT":6550,"date":"2025-08-01","isActive":false}
{"command":"adjust","id":"adj-1","currencyCode":"USD","quantity":-2.5,"date":"2025-08-04","memo":"recount"}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("EncodeLedger() mismatch (-want +got):\n%s", diff)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() failed: %v", err)
	}
	if diff := cmp.Diff(ledger.transactions, decoded.transactions, cmpOpts); diff != "" {
		t.Errorf("transactions mismatch after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ledger.adjustments, decoded.adjustments, cmpOpts); diff != "" {
		t.Errorf("adjustments mismatch after round trip (-want +got):\n%s", diff)
	}
	if len(decoded.rejected) != 0 {
		t.Errorf("round trip rejected records: %v", decoded.rejected)
	}
}

func TestDecodeTransactions(t *testing.T) {
	ledger := DecodeTransactions([]json.RawMessage{
		json.RawMessage(`{"currencyCode":"USD","type":"Buy","quantity":10,"exchangeRate":110,"date":"2025-01-01"}`),
		json.RawMessage(`[1,2]`),
		json.RawMessage(`{"currencyCode":"USD","type":"Sell","quantity":5,"exchangeRate":111,"date":"2025-01-02"}`),
	})
	if got := ledger.Len(); got != 2 {
		t.Errorf("DecodeTransactions() kept %d transactions, want 2", got)
	}
	if len(ledger.rejected) != 1 || ledger.rejected[0].Index != 1 {
		t.Errorf("DecodeTransactions() rejections = %v, want element 1", ledger.rejected)
	}
}
