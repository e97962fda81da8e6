package reserve

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxType tells whether the desk bought or sold foreign currency.
type TxType string

const (
	Buy  TxType = "Buy"
	Sell TxType = "Sell"
)

// ParseTxType parses a transaction type, ignoring case.
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return TxType(s), fmt.Errorf("unknown transaction type %q", s)
	}
}

// CurrencyTransaction is one buy or sell of foreign currency against BDT, as
// recorded by the exchange desk.
type CurrencyTransaction struct {
	ID        string
	Currency  string    // Currency is the foreign currency code, the partition key.
	Type      TxType    // Type is Buy or Sell.
	Quantity  Quantity  // Quantity of foreign currency moved, always positive.
	Rate      Money     // Rate is the BDT paid or received per foreign unit.
	Amount    Money     // Amount is the BDT settlement, zero when unknown.
	Date      Date      // Date is the business date.
	CreatedAt time.Time // CreatedAt orders transactions of the same day.
	Active    bool      // Active is false for cancelled transactions.
	Memo      string
}

// NewBuy creates an active Buy transaction settled at quantity × rate.
func NewBuy(day Date, id, currency string, quantity Quantity, rate Money) CurrencyTransaction {
	return CurrencyTransaction{
		ID: id, Currency: currency, Type: Buy, Date: day, Active: true,
		Quantity: quantity, Rate: rate, Amount: rate.Mul(quantity),
	}
}

// NewSell creates an active Sell transaction settled at quantity × rate.
func NewSell(day Date, id, currency string, quantity Quantity, rate Money) CurrencyTransaction {
	return CurrencyTransaction{
		ID: id, Currency: currency, Type: Sell, Date: day, Active: true,
		Quantity: quantity, Rate: rate, Amount: rate.Mul(quantity),
	}
}

// Settlement returns the BDT value of the transaction: the recorded amount
// when present, otherwise quantity × rate.
func (t CurrencyTransaction) Settlement() Money {
	if !t.Amount.IsZero() {
		return t.Amount
	}
	return t.Rate.Mul(t.Quantity)
}

// Validate normalizes the currency code and the type, and returns every
// problem that makes the transaction unusable.
func (t CurrencyTransaction) Validate() (CurrencyTransaction, error) {
	var errs []error

	t.Currency = NormalizeCurrency(t.Currency)
	if err := ValidateCurrency(t.Currency); err != nil {
		errs = append(errs, err)
	} else if t.Currency == SettlementCurrency {
		errs = append(errs, fmt.Errorf("cannot trade the settlement currency %s", SettlementCurrency))
	}

	typ, err := ParseTxType(string(t.Type))
	if err != nil {
		errs = append(errs, err)
	}
	t.Type = typ

	if !t.Quantity.IsPositive() {
		errs = append(errs, fmt.Errorf("quantity must be positive, got %s", t.Quantity))
	}
	if t.Rate.IsNegative() {
		errs = append(errs, fmt.Errorf("exchange rate must not be negative, got %s", t.Rate.Amount()))
	}
	if t.Amount.IsNegative() {
		errs = append(errs, fmt.Errorf("BDT amount must not be negative, got %s", t.Amount.Amount()))
	}
	if t.Rate.IsZero() && t.Amount.IsZero() {
		errs = append(errs, errors.New("exchange rate and BDT amount are both missing"))
	}
	if t.Date.IsZero() {
		errs = append(errs, errors.New("date is missing"))
	}
	return t, errors.Join(errs...)
}

// jsonTransaction is the record layout used by the console store.
type jsonTransaction struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currencyCode"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"exchangeRate"`
	Amount    decimal.Decimal `json:"amountBDT"`
	Date      Date            `json:"date"`
	CreatedAt string          `json:"createdAt"`
	Active    *bool           `json:"isActive"`
	Memo      string          `json:"memo"`
}

// MarshalJSON implements the json.Marshaler interface for CurrencyTransaction.
func (t CurrencyTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.ID)
	w.Append("currencyCode", t.Currency)
	w.Append("type", t.Type)
	w.Append("quantity", t.Quantity)
	w.Append("exchangeRate", t.Rate.exact())
	if !t.Amount.IsZero() {
		w.Append("amountBDT", t.Amount.exact())
	}
	w.Append("date", t.Date)
	if !t.CreatedAt.IsZero() {
		w.Append("createdAt", t.CreatedAt.UTC().Format(time.RFC3339Nano))
	}
	w.Append("isActive", t.Active)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for CurrencyTransaction.
// A record without "isActive" is active.
func (t *CurrencyTransaction) UnmarshalJSON(data []byte) error {
	var temp jsonTransaction
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	createdAt, err := ParseTimestamp(temp.CreatedAt)
	if err != nil {
		return err
	}
	*t = CurrencyTransaction{
		ID:        temp.ID,
		Currency:  temp.Currency,
		Type:      TxType(temp.Type),
		Quantity:  Q(temp.Quantity),
		Rate:      BDT(temp.Rate).exact(),
		Amount:    BDT(temp.Amount).exact(),
		Date:      temp.Date,
		Active:    temp.Active == nil || *temp.Active,
		Memo:      temp.Memo,
		CreatedAt: createdAt,
	}
	return nil
}

// Adjustment is a manual correction of a currency reserve, for instance after
// a physical count. It changes the reserve but neither the traded totals nor
// the cost basis.
type Adjustment struct {
	ID       string
	Currency string
	Quantity Quantity // Quantity is signed: negative removes currency from the reserve.
	Date     Date
	Memo     string
}

// NewAdjustment creates a reserve adjustment.
func NewAdjustment(day Date, id, currency string, quantity Quantity, memo string) Adjustment {
	return Adjustment{ID: id, Currency: currency, Quantity: quantity, Date: day, Memo: memo}
}

// Validate normalizes the currency code and checks the adjustment.
func (a Adjustment) Validate() (Adjustment, error) {
	var errs []error
	a.Currency = NormalizeCurrency(a.Currency)
	if err := ValidateCurrency(a.Currency); err != nil {
		errs = append(errs, err)
	}
	if a.Quantity.IsZero() {
		errs = append(errs, errors.New("adjustment quantity must not be zero"))
	}
	if a.Date.IsZero() {
		errs = append(errs, errors.New("date is missing"))
	}
	return a, errors.Join(errs...)
}

// MarshalJSON implements the json.Marshaler interface for Adjustment.
func (a Adjustment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", a.ID)
	w.Append("currencyCode", a.Currency)
	w.Append("quantity", a.Quantity)
	w.Append("date", a.Date)
	w.Optional("memo", a.Memo)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Adjustment.
func (a *Adjustment) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID       string          `json:"id"`
		Currency string          `json:"currencyCode"`
		Quantity decimal.Decimal `json:"quantity"`
		Date     Date            `json:"date"`
		Memo     string          `json:"memo"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*a = Adjustment{ID: temp.ID, Currency: temp.Currency, Quantity: Q(temp.Quantity), Date: temp.Date, Memo: temp.Memo}
	return nil
}
