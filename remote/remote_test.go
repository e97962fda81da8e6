package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const payload = `{"success":true,"data":[
{"id":"1","currencyCode":"USD","type":"Buy","quantity":"1000","exchangeRate":"110.1234567","date":"2025-01-01","createdAt":"2025-01-01T08:00:00.000Z","isActive":true},
{"id":"2","currencyCode":"USD","type":"Sell","quantity":200,"exchangeRate":118.000000001,"amountBDT":23600,"date":"2025-01-02"},
"oops"
]}`

func TestClient_Ledger(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	c.Token = "secret"
	ledger, err := c.Ledger(context.Background())
	if err != nil {
		t.Fatalf("Ledger() failed: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token", auth)
	}
	if ledger.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ledger.Len())
	}
	rejections := ledger.Rejections()
	if len(rejections) != 1 || rejections[0].Index != 2 {
		t.Errorf("Rejections() = %v, want element 2", rejections)
	}
	for _, tx := range ledger.Transactions() {
		if tx.ID == "2" && tx.Rate.Amount().String() != "118.000000001" {
			t.Errorf("rate lost digits: %s", tx.Rate.Amount())
		}
	}
}

func TestClient_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"rows":[{"currencyCode":"EUR","type":"Buy","quantity":5,"exchangeRate":130,"date":"2025-01-01"}]},"data":{}}`))
	}))
	defer srv.Close()

	ledger, err := New(srv.URL, "$.result.rows").Ledger(context.Background())
	if err != nil {
		t.Fatalf("Ledger() failed: %v", err)
	}
	if ledger.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ledger.Len())
	}

	if _, err := New(srv.URL, "").Ledger(context.Background()); err == nil {
		t.Errorf("Ledger() on an object at $.data returned no error")
	}
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, "").Ledger(context.Background()); err == nil {
		t.Errorf("Ledger() on a 503 returned no error")
	}
}
