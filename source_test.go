package reserve

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgers", "desk.jsonl")
	ledger := testLedger()
	if err := SaveLedger(path, ledger); err != nil {
		t.Fatalf("SaveLedger() failed: %v", err)
	}

	got, err := FileSource{Path: path}.Ledger(context.Background())
	if err != nil {
		t.Fatalf("Ledger() failed: %v", err)
	}
	if diff := cmp.Diff(ledger.transactions, got.transactions, cmpOpts); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}
	if got.CurrencyName("GBP") != "Pound Sterling" {
		t.Errorf("currency declaration lost")
	}
}

func TestFileSource_Directory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.jsonl": `{"currencyCode":"USD","type":"Buy","quantity":100,"exchangeRate":110,"date":"2025-01-01"}
garbage
`,
		filepath.Join("sub", "b.jsonl"): `{"currencyCode":"USD","type":"Sell","quantity":40,"exchangeRate":112,"date":"2025-01-02"}
{"command":"nope"}
`,
		"notes.txt": "not a ledger",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ledger, err := FileSource{Path: dir}.Ledger(context.Background())
	if err != nil {
		t.Fatalf("Ledger() failed: %v", err)
	}
	if ledger.Len() != 2 || ledger.transactions[0].Type != Buy {
		t.Errorf("merged transactions = %+v, want the buy then the sell", ledger.transactions)
	}
	rejections := ledger.Rejections()
	if len(rejections) != 2 {
		t.Fatalf("Rejections() = %v, want 2", rejections)
	}
	if !strings.HasPrefix(rejections[0].Reason, "a: ") || rejections[0].Index != 2 {
		t.Errorf("first rejection = %v, want line 2 of a", rejections[0])
	}
	if want := filepath.Join("sub", "b") + ": "; !strings.HasPrefix(rejections[1].Reason, want) {
		t.Errorf("second rejection = %v, want prefix %q", rejections[1], want)
	}
}

func TestFileSource_Missing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.jsonl")}.Ledger(context.Background())
	if err == nil {
		t.Errorf("Ledger() on a missing file returned no error")
	}
}
